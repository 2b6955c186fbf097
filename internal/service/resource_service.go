package service

import (
	"strings"

	"mitr-be/internal/pkg/apperror"
	"mitr-be/pkg/catalog"
)

// IResourceService serves the static library, helplines and community
// channel listings.
type IResourceService interface {
	Search(q catalog.ResourceQuery) []catalog.Resource
	Get(id string) (*catalog.Resource, error)
	Helplines() []catalog.Helpline
}

type resourceService struct {
	catalog *catalog.Catalog
}

func NewResourceService(cat *catalog.Catalog) IResourceService {
	return &resourceService{catalog: cat}
}

func (s *resourceService) Search(q catalog.ResourceQuery) []catalog.Resource {
	q.Type = strings.TrimSpace(q.Type)
	q.Query = strings.TrimSpace(q.Query)
	q.Tag = strings.TrimSpace(q.Tag)

	return s.catalog.SearchResources(q)
}

func (s *resourceService) Get(id string) (*catalog.Resource, error) {
	r, ok := s.catalog.Resource(id)
	if !ok {
		return nil, apperror.NotFound("resource not found")
	}
	return &r, nil
}

func (s *resourceService) Helplines() []catalog.Helpline {
	return s.catalog.Helplines
}
