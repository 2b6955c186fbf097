package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"
	internalWS "mitr-be/internal/websocket"
	"mitr-be/pkg/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroupService struct {
	service.IGroupService

	posted []string
	lastQ  dto.MessageQuery
	emojis []string
}

func (f *fakeGroupService) Rooms() []catalog.Room {
	return []catalog.Room{{Key: "general"}, {Key: "anxiety"}}
}

func (f *fakeGroupService) Post(ctx context.Context, userId uuid.UUID, room string, req *dto.PostMessageRequest) (*dto.GroupMessageResponse, error) {
	if req.Content == "   " {
		return nil, nil
	}
	f.posted = append(f.posted, req.Content)
	return &dto.GroupMessageResponse{Id: uuid.New(), Seq: int64(len(f.posted)), Room: room, UserId: userId, Content: req.Content}, nil
}

func (f *fakeGroupService) Messages(ctx context.Context, room string, q dto.MessageQuery) ([]*dto.GroupMessageResponse, error) {
	f.lastQ = q
	return []*dto.GroupMessageResponse{}, nil
}

func (f *fakeGroupService) React(ctx context.Context, messageId uuid.UUID, emoji string) (*dto.ReactionResponse, error) {
	f.emojis = append(f.emojis, emoji)
	return &dto.ReactionResponse{MessageId: messageId, Reactions: map[string]int{emoji: 1}}, nil
}

type fakePreferences struct {
	service.IUserService
}

func newGroupApp(svc *fakeGroupService, secret string) *fiber.App {
	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	c := NewGroupController(svc, &fakePreferences{}, hub, fakeAuth(uuid.New()),
		serverutils.SocketAuth{Secret: secret}, logger.NewNopLogger())
	return newTestApp(c)
}

func TestPostEmptyContentIsNoContent(t *testing.T) {
	svc := &fakeGroupService{}
	app := newGroupApp(svc, "s")

	resp, _ := do(t, app, "POST", "/api/groups/rooms/general/messages", map[string]string{"content": "   "})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, env := do(t, app, "POST", "/api/groups/rooms/general/messages", map[string]string{"content": "hello"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"seq":1`)
	assert.Equal(t, []string{"hello"}, svc.posted)
}

func TestMessagesParsesPaging(t *testing.T) {
	svc := &fakeGroupService{}
	app := newGroupApp(svc, "s")

	resp, _ := do(t, app, "GET", "/api/groups/rooms/general/messages?after_seq=5&limit=10", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.MessageQuery{AfterSeq: 5, Limit: 10}, svc.lastQ)
}

func TestReactValidatesIdAndEmoji(t *testing.T) {
	svc := &fakeGroupService{}
	app := newGroupApp(svc, "s")

	resp, _ := do(t, app, "POST", "/api/groups/messages/nope/reactions", map[string]string{"emoji": "+1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/api/groups/messages/"+uuid.NewString()+"/reactions", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/api/groups/messages/"+uuid.NewString()+"/reactions", map[string]string{"emoji": "+1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"+1"}, svc.emojis)
}

func TestRoomSocketHandshake(t *testing.T) {
	secret := "ws-secret"
	app := newGroupApp(&fakeGroupService{}, secret)
	token := func() string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": uuid.NewString(),
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		s, err := tok.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}()

	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "no token", url: "/api/groups/rooms/general/ws", want: http.StatusUnauthorized},
		{name: "unknown room", url: "/api/groups/rooms/lobby/ws?token=" + token, want: http.StatusNotFound},
		{name: "plain http", url: "/api/groups/rooms/general/ws?token=" + token, want: http.StatusUpgradeRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := send(t, app, httptest.NewRequest("GET", tt.url, nil))
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
