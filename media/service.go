package media

import (
	"context"
	"errors"
	"time"

	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
)

// Config carries the media-server endpoint and signing credentials.
type Config struct {
	// URL is the LiveKit server endpoint, e.g. "https://media.example.com".
	URL string

	// APIKey and APISecret sign every issued token and authenticate
	// RoomService calls.
	APIKey    string
	APISecret string

	// TokenTTL is the validity window of issued tokens.
	TokenTTL time.Duration
}

// Service talks to a single LiveKit deployment.
type Service struct {
	cfg   Config
	rooms *lksdk.RoomServiceClient
}

// NewService validates the credentials and builds the RoomService client.
// No network I/O happens here.
func NewService(cfg Config) (*Service, error) {
	if cfg.URL == "" {
		return nil, errors.New("media server URL is required")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("media server API key and secret are required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	return &Service{
		cfg:   cfg,
		rooms: lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret),
	}, nil
}

// CreateRoom creates roomName on the media server. Creating a room that
// already exists is not an error on the LiveKit side, but callers always
// pass fresh names.
func (s *Service) CreateRoom(ctx context.Context, roomName string) error {
	_, err := s.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name: roomName,
	})
	return err
}

// SignToken mints a join token for participant in roomName. A non-empty
// agent embeds a room-agent dispatch directive carrying metadata, so the
// named agent joins as soon as the room goes live.
func (s *Service) SignToken(ctx context.Context, roomName, participant, agent, metadata string) (string, error) {
	at := auth.NewAccessToken(s.cfg.APIKey, s.cfg.APISecret).
		SetIdentity(participant).
		SetValidFor(s.cfg.TokenTTL).
		SetVideoGrant(&auth.VideoGrant{
			RoomJoin: true,
			Room:     roomName,
		})

	if agent != "" {
		at.SetRoomConfig(&livekit.RoomConfiguration{
			Agents: []*livekit.RoomAgentDispatch{
				{
					AgentName: agent,
					Metadata:  metadata,
				},
			},
		})
	}

	return at.ToJWT()
}
