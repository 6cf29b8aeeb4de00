package mcp

import (
	"context"
	"sync"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"worldsave/internal/meta"
	"worldsave/internal/selector"
	"worldsave/internal/snapshot"
	"worldsave/internal/world"
)

// SnapshotService is the part of snapshot.Service the tools need.
type SnapshotService interface {
	Capture(ctx context.Context, entityType string) (*snapshot.CaptureResult, error)
	Restore(ctx context.Context, target any) (*snapshot.Report, error)
	Denylist() meta.Denylist
}

type Deps struct {
	Snapshots  SnapshotService
	Registry   *meta.Registry
	World      *world.World
	Catalog    *world.Catalog
	EntityType string
	Logger     *zerolog.Logger
}

// Server exposes capture, restore and selection as MCP tools. Tool calls are
// serialized because the world is not safe for concurrent use.
type Server struct {
	deps   Deps
	logger zerolog.Logger
	mcp    *sdk.Server

	mu       sync.Mutex
	sessions map[string]*selector.Session
	order    []string
}

// maxSessions bounds open selection sessions. Beginning one more evicts the oldest.
const maxSessions = 16

func (s *Server) addSession(id string, session *selector.Session) {
	for len(s.order) >= maxSessions {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, oldest)
		s.logger.Debug().Str("session", oldest).Msg("selection evicted")
	}
	s.sessions[id] = session
	s.order = append(s.order, id)
}

func (s *Server) removeSession(id string) {
	delete(s.sessions, id)
	for i, open := range s.order {
		if open == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func NewServer(deps Deps, version string) *Server {
	logger := zerolog.Nop()
	if deps.Logger != nil {
		logger = *deps.Logger
	}
	s := &Server{
		deps:     deps,
		logger:   logger.With().Str("component", "mcp").Logger(),
		sessions: make(map[string]*selector.Session),
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "worldsave",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.logger.Info().Msg("serving")
	return s.mcp.Run(ctx, transport)
}
