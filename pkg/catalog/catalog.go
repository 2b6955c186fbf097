// Package catalog holds the static content served by the API: support rooms,
// community channels, self-help resources, helplines and supported devices.
package catalog

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Link struct {
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url" json:"url"`
}

type Room struct {
	Key       string   `yaml:"key" json:"key"`
	Label     string   `yaml:"label" json:"label"`
	Prompts   []string `yaml:"prompts" json:"prompts"`
	Resources []Link   `yaml:"resources" json:"resources"`
}

type Channel struct {
	ID                  string `yaml:"id" json:"id"`
	Name                string `yaml:"name" json:"name"`
	Topic               string `yaml:"topic" json:"topic"`
	Category            string `yaml:"category" json:"category"`
	Group               string `yaml:"group" json:"group"`
	ProfessionalType    string `yaml:"professional_type" json:"professional_type"`
	ProfessionalPresent bool   `yaml:"professional_present" json:"professional_present"`
}

type Resource struct {
	ID          string   `yaml:"id" json:"id"`
	Type        string   `yaml:"type" json:"type"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	URL         string   `yaml:"url" json:"url,omitempty"`
	Embed       string   `yaml:"embed" json:"embed,omitempty"`
	Tags        []string `yaml:"tags" json:"tags"`
	Rating      float64  `yaml:"rating" json:"rating"`
}

type Helpline struct {
	Name        string `yaml:"name" json:"name"`
	Number      string `yaml:"number" json:"number"`
	WhatsApp    string `yaml:"whatsapp" json:"whatsapp,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

type Device struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Brand string `yaml:"brand" json:"brand"`
	Type  string `yaml:"type" json:"type"`
}

type ResourceQuery struct {
	Type  string
	Query string
	Tag   string
}

type Catalog struct {
	Rooms            []Room     `yaml:"rooms"`
	SupportTemplates []string   `yaml:"support_templates"`
	Channels         []Channel  `yaml:"channels"`
	Resources        []Resource `yaml:"resources"`
	Helplines        []Helpline `yaml:"helplines"`
	Devices          []Device   `yaml:"devices"`
}

func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(defaultCatalog, &c); err != nil {
		return nil, errors.Wrap(err, "parse static catalogue")
	}
	return &c, nil
}

func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Room(key string) (Room, bool) {
	for _, r := range c.Rooms {
		if r.Key == key {
			return r, true
		}
	}
	return Room{}, false
}

// ChannelsIn returns channels of a category, or all channels when category is empty.
func (c *Catalog) ChannelsIn(category string) []Channel {
	var out []Channel
	for _, ch := range c.Channels {
		if category == "" || ch.Category == category {
			out = append(out, ch)
		}
	}
	return out
}

func (c *Catalog) Resource(id string) (Resource, bool) {
	for _, r := range c.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}

// SearchResources filters by type ("all" or empty matches everything), a
// free-text query over title, description and tags, and an exact tag. Results
// are ordered by rating, highest first.
func (c *Catalog) SearchResources(q ResourceQuery) []Resource {
	query := strings.ToLower(strings.TrimSpace(q.Query))
	out := make([]Resource, 0, len(c.Resources))
	for _, r := range c.Resources {
		if q.Type != "" && q.Type != "all" && r.Type != q.Type {
			continue
		}
		if q.Tag != "" && !hasTag(r.Tags, q.Tag) {
			continue
		}
		if query != "" && !r.matches(query) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out
}

func (r Resource) matches(query string) bool {
	if strings.Contains(strings.ToLower(r.Title), query) || strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (c *Catalog) Device(id string) (Device, bool) {
	for _, d := range c.Devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}
