// Package store is the durable holder of the current session: the bearer
// credential and the cached profile of the signed-in user.
//
// Reads are synchronous and lock-free: the store keeps an immutable snapshot
// in memory and swaps it whole after every successful write, so concurrent
// readers always see either the old pair or the new pair, never a mix.
// Writes go to the local metadata table inside one transaction.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/miguelherrera-611/vetclinic/internal/client/models"
	"github.com/miguelherrera-611/vetclinic/internal/client/repositories/metadata"
	"github.com/miguelherrera-611/vetclinic/internal/dbx"
	"github.com/miguelherrera-611/vetclinic/internal/logging"
)

// Persisted keys.
const (
	KeyCredential = "token"
	KeyProfile    = "user"
)

// RepoFactory binds a metadata repository to a query handle, which is either
// the database itself or a transaction.
type RepoFactory func(db dbx.DBTX) metadata.Repository

type snapshot struct {
	credential string
	profile    *models.UserProfile
}

// Store holds {Credential, UserProfile}. Create it with Open.
type Store struct {
	db      Database
	newRepo RepoFactory
	log     logging.Logger
	now     func() time.Time

	// wmu serialises writers; readers only touch cur.
	wmu sync.Mutex
	cur atomic.Pointer[snapshot]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for soft failures (unparseable data).
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock overrides the time source used by expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRepoFactory overrides how the metadata repository is built.
func WithRepoFactory(f RepoFactory) Option {
	return func(s *Store) { s.newRepo = f }
}

// Database is what Open needs from the SQL handle. *sql.DB satisfies it.
type Database interface {
	dbx.DBTX
	dbx.Beginner
}

// Open loads the persisted session from db. A profile that fails to parse
// is dropped from the snapshot (and logged); it is not an error.
func Open(ctx context.Context, db Database, opts ...Option) (*Store, error) {
	s := &Store{
		db:  db,
		log: logging.Nop{},
		now: time.Now,
		newRepo: func(q dbx.DBTX) metadata.Repository {
			return metadata.NewSQLiteRepository(q)
		},
	}
	for _, o := range opts {
		o(s)
	}

	pairs, err := s.newRepo(db).List(ctx, KeyCredential, KeyProfile)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	snap := &snapshot{credential: string(pairs[KeyCredential])}
	if raw, ok := pairs[KeyProfile]; ok {
		snap.profile = s.decodeProfile(ctx, raw)
	}
	s.cur.Store(snap)
	return s, nil
}

func (s *Store) decodeProfile(ctx context.Context, raw []byte) *models.UserProfile {
	var p models.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.Warn(ctx, "persisted profile is unreadable, treating as absent", "error", err)
		return nil
	}
	return &p
}

func (s *Store) load() *snapshot {
	if snap := s.cur.Load(); snap != nil {
		return snap
	}
	return &snapshot{}
}

// Credential returns the stored bearer credential.
func (s *Store) Credential() (string, bool) {
	c := s.load().credential
	return c, c != ""
}

// Profile returns a copy of the cached profile.
func (s *Store) Profile() (*models.UserProfile, bool) {
	p := s.load().profile
	if p == nil {
		return nil, false
	}
	return p.Clone(), true
}

// Save persists credential and profile together. Readers observe the new
// pair only after the transaction commits.
func (s *Store) Save(ctx context.Context, credential string, profile *models.UserProfile) error {
	if credential == "" || profile == nil {
		return errors.New("save session: credential and profile are required")
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		if err := repo.Set(ctx, KeyCredential, []byte(credential)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyProfile, raw)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.cur.Store(&snapshot{credential: credential, profile: profile.Clone()})
	return nil
}

// SaveCredential replaces only the credential, keeping the cached profile.
func (s *Store) SaveCredential(ctx context.Context, credential string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.newRepo(s.db).Set(ctx, KeyCredential, []byte(credential)); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	s.cur.Store(&snapshot{credential: credential, profile: s.load().profile})
	return nil
}

// ReplaceProfile replaces the cached profile wholesale.
func (s *Store) ReplaceProfile(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil {
		return errors.New("save profile: profile is required")
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.writeProfile(ctx, profile)
}

// MergeProfile shallow-merges patch into the cached profile and persists the
// result. It is a no-op when no profile exists.
func (s *Store) MergeProfile(ctx context.Context, patch models.ProfilePatch) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	cur := s.load().profile
	if cur == nil {
		return nil
	}
	return s.writeProfile(ctx, cur.Merge(patch))
}

func (s *Store) writeProfile(ctx context.Context, profile *models.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.newRepo(s.db).Set(ctx, KeyProfile, raw); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.cur.Store(&snapshot{credential: s.load().credential, profile: profile.Clone()})
	return nil
}

// Clear removes both entries. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.newRepo(s.db).Delete(ctx, KeyCredential, KeyProfile); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.cur.Store(&snapshot{})
	return nil
}
