package stamp

import (
	"bytes"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/serializer/v2/marshalutil"
	"github.com/pkg/errors"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/assetnumber"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/verification"
)

const (
	StorePrefixStamp    byte = 0
	StorePrefixSequence byte = 1
)

var (
	realm       = []byte{0x0B}
	sequenceKey = []byte{StorePrefixSequence}
)

var (
	ErrNotFound        = errors.New("stamp not found")
	ErrAlreadyAnchored = errors.New("stamp already anchored")
	ErrInvalidRequest  = errors.New("invalid stamp request")
)

// Store persists stamps in a kvstore realm. Writes are serialized so the
// asset-number sequence and status transitions stay consistent.
type Store struct {
	mu    sync.Mutex
	store kvstore.KVStore
	now   func() time.Time

	// claimed holds the IDs of pending stamps an anchor is in flight for.
	claimed map[string]struct{}
}

func NewStore(store kvstore.KVStore) (*Store, error) {
	stampStore, err := store.WithRealm(realm)
	if err != nil {
		return nil, errors.Wrap(err, "open stamp realm")
	}

	return &Store{
		store:   stampStore,
		now:     time.Now,
		claimed: make(map[string]struct{}),
	}, nil
}

// Create stores a pending stamp for in. An empty asset number is filled
// from the sequence; in itself is left untouched.
func (s *Store) Create(in *record.Request) (*Stamp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := *in
	var next uint64
	if req.AssetNumber == "" {
		n, formatted, err := s.peekAssetNumber()
		if err != nil {
			return nil, err
		}
		next, req.AssetNumber = n, formatted
	}
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidRequest, err.Error())
	}
	if next != 0 {
		if err := s.commitAssetNumber(next); err != nil {
			return nil, err
		}
	}

	st := &Stamp{
		ID:          uuid.New().String(),
		AssetNumber: req.AssetNumber,
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
		UserID:      req.UserID,
		Timestamp:   req.Timestamp,
		Data:        req.Data,
		Status:      verification.StatusPending,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.put(st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *Store) Get(id string) (*Stamp, error) {
	value, err := s.store.Get(stampKey(id))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, errors.Wrap(ErrNotFound, id)
		}
		return nil, errors.Wrapf(err, "get stamp %s", id)
	}

	return decodeStamp(value)
}

// List returns all stamps ordered by asset number.
func (s *Store) List() ([]*Stamp, error) {
	var (
		stamps  []*Stamp
		iterErr error
	)

	if err := s.store.Iterate([]byte{StorePrefixStamp}, func(_ kvstore.Key, value kvstore.Value) bool {
		st, err := decodeStamp(value)
		if err != nil {
			iterErr = err
			return false
		}
		stamps = append(stamps, st)

		return true
	}); err != nil {
		return nil, errors.Wrap(err, "iterate stamps")
	}
	if iterErr != nil {
		return nil, iterErr
	}

	sort.Slice(stamps, func(i, j int) bool {
		return stamps[i].AssetNumber < stamps[j].AssetNumber
	})

	return stamps, nil
}

// Claim reserves a pending stamp for a single anchor attempt. Later callers
// get ErrAlreadyAnchored until the claim is released or an outcome is
// recorded.
func (s *Store) Claim(id string) (*Stamp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if st.Status != verification.StatusPending {
		return nil, errors.Wrapf(ErrAlreadyAnchored, "%s is %s", id, st.Status)
	}
	if _, inFlight := s.claimed[id]; inFlight {
		return nil, errors.Wrapf(ErrAlreadyAnchored, "%s is being anchored", id)
	}
	s.claimed[id] = struct{}{}

	return st, nil
}

// Release drops the claim on id without recording an outcome.
func (s *Store) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.claimed, id)
}

// RecordOutcome stores the anchoring outcome of a pending stamp and drops
// any claim on it. Only a pending stamp accepts an outcome.
func (s *Store) RecordOutcome(id string, out *verification.Outcome) (*Stamp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if st.Status != verification.StatusPending {
		return nil, errors.Wrapf(ErrAlreadyAnchored, "%s is %s", id, st.Status)
	}
	if out.Status == verification.StatusPending {
		return nil, errors.Errorf("outcome for %s is still pending", id)
	}

	st.apply(out, s.now().UTC())
	if err := s.put(st); err != nil {
		return nil, err
	}
	delete(s.claimed, id)

	return st, nil
}

// peekAssetNumber returns the next number of the sequence without
// consuming it. Callers hold s.mu.
func (s *Store) peekAssetNumber() (uint64, string, error) {
	var current uint64
	value, err := s.store.Get(sequenceKey)
	switch {
	case errors.Is(err, kvstore.ErrKeyNotFound):
	case err != nil:
		return 0, "", errors.Wrap(err, "read asset number sequence")
	default:
		if current, err = marshalutil.New(value).ReadUint64(); err != nil {
			return 0, "", errors.Wrap(err, "decode asset number sequence")
		}
	}

	next := current + 1
	formatted, err := assetnumber.Format(next)
	if err != nil {
		return 0, "", err
	}

	return next, formatted, nil
}

func (s *Store) commitAssetNumber(n uint64) error {
	ms := marshalutil.New(marshalutil.Uint64Size)
	ms.WriteUint64(n)

	return errors.Wrap(s.store.Set(sequenceKey, ms.Bytes()), "advance asset number sequence")
}

func (s *Store) put(st *Stamp) error {
	value, err := json.Marshal(st)
	if err != nil {
		return errors.Wrapf(err, "encode stamp %s", st.ID)
	}

	return errors.Wrapf(s.store.Set(stampKey(st.ID), value), "store stamp %s", st.ID)
}

func stampKey(id string) []byte {
	ms := marshalutil.New(1 + len(id))
	ms.WriteByte(StorePrefixStamp)
	ms.WriteBytes([]byte(id))

	return ms.Bytes()
}

// decodeStamp keeps numbers as json.Number so a stored record fingerprints
// exactly as it did when it was created.
func decodeStamp(value []byte) (*Stamp, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()

	var st Stamp
	if err := dec.Decode(&st); err != nil {
		return nil, errors.Wrap(err, "decode stamp")
	}

	return &st, nil
}
