package session

import (
	"context"
	"log/slog"
	"sync"

	"skybook/pkg/client"
	"skybook/pkg/logger"
)

// AuthClient is the part of the API client the provider depends on
type AuthClient interface {
	Subscribe(ctx context.Context) <-chan client.AuthEvent
	Login(ctx context.Context, email, password string) (*client.Session, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.Session, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context, userID string) (*client.Profile, error)
}

// State is an immutable snapshot of who is signed in
type State struct {
	Session *client.Session
	User    *client.User
	Profile *client.Profile
	// Ready turns true once the initial session event has been applied
	Ready bool
}

func (s State) IsAuthenticated() bool {
	return s.User != nil
}

func (s State) IsAdmin() bool {
	return s.Profile.IsAdmin()
}

type profileResult struct {
	generation uint64
	profile    *client.Profile
	err        error
}

// Provider mirrors the client's auth state. Only Run writes state.
type Provider struct {
	client AuthClient
	log    *logger.Logger

	mu    sync.RWMutex
	state State

	// owned by Run
	generation uint64
	profiles   chan profileResult

	watchMu  sync.Mutex
	watchers map[int]chan State
	nextID   int
}

func NewProvider(c AuthClient) *Provider {
	return &Provider{
		client:   c,
		log:      logger.GetDefault().WithComponent("session"),
		profiles: make(chan profileResult),
		watchers: make(map[int]chan State),
	}
}

// Run applies auth events until ctx is cancelled
func (p *Provider) Run(ctx context.Context) error {
	events := p.client.Subscribe(ctx)

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return ctx.Err()
			}
			p.apply(ctx, event)

		case result := <-p.profiles:
			if result.generation != p.generation {
				// a later auth transition superseded this fetch
				continue
			}
			if result.err != nil {
				p.log.Warn("failed to load profile", slog.Any("error", result.err))
				continue
			}
			p.update(func(s *State) { s.Profile = result.profile })

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Provider) apply(ctx context.Context, event client.AuthEvent) {
	previous := p.Snapshot()

	if event.Session == nil {
		p.generation++
		p.update(func(s *State) {
			s.Session = nil
			s.User = nil
			s.Profile = nil
			s.Ready = true
		})
		return
	}

	user := event.Session.User
	sameUser := previous.User != nil && previous.User.ID == user.ID

	// refreshing a token for the same user keeps the loaded profile
	refetch := !(sameUser && event.Type == client.EventTokenRefreshed)
	if refetch {
		p.generation++
	}

	p.update(func(s *State) {
		s.Session = event.Session
		s.User = &user
		if !sameUser {
			s.Profile = nil
		}
		s.Ready = true
	})

	if refetch {
		go p.fetchProfile(ctx, p.generation, user.ID)
	}
}

func (p *Provider) fetchProfile(ctx context.Context, generation uint64, userID string) {
	profile, err := p.client.GetProfile(ctx, userID)
	select {
	case p.profiles <- profileResult{generation: generation, profile: profile, err: err}:
	case <-ctx.Done():
	}
}

func (p *Provider) update(mutate func(*State)) {
	p.mu.Lock()
	next := p.state
	mutate(&next)
	p.state = next
	p.mu.Unlock()

	p.broadcast(next)
}

// Snapshot returns the current state
func (p *Provider) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Provider) IsAuthenticated() bool {
	return p.Snapshot().IsAuthenticated()
}

func (p *Provider) IsAdmin() bool {
	return p.Snapshot().IsAdmin()
}

// Login, Register and Logout pass straight through; the resulting state
// change arrives later as an auth event.
func (p *Provider) Login(ctx context.Context, email, password string) error {
	_, err := p.client.Login(ctx, email, password)
	return err
}

func (p *Provider) Register(ctx context.Context, req client.RegisterRequest) error {
	_, err := p.client.Register(ctx, req)
	return err
}

func (p *Provider) Logout(ctx context.Context) error {
	return p.client.Logout(ctx)
}

// Watch delivers the latest state after every change. Slow readers only see
// the most recent snapshot. The channel closes when ctx ends.
func (p *Provider) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, 1)

	p.watchMu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = ch
	p.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		p.watchMu.Lock()
		delete(p.watchers, id)
		close(ch)
		p.watchMu.Unlock()
	}()

	return ch
}

func (p *Provider) broadcast(state State) {
	p.watchMu.Lock()
	defer p.watchMu.Unlock()

	for _, ch := range p.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}
