package license

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// State of the gate after Check. A gate starts Unchecked and ends either
// Valid or Invalid; only Valid lets the run proceed.
type State int

const (
	Unchecked State = iota
	Valid
	Invalid
)

var (
	// ErrLicenseRejected means the license server answered with an
	// explicit 403. Mapped to HTTP 403 by the trigger handler.
	ErrLicenseRejected = errors.New("license rejected by server")

	// ErrLicenseExpired means the cached expiry has passed and the server
	// could not be reached to refresh it.
	ErrLicenseExpired = errors.New("license expired and server unreachable")
)

const (
	// refreshThreshold is how close to expiry the cached value may get
	// before a remote refresh is attempted.
	refreshThreshold = 72 * time.Hour

	// extension is added on every successful remote validation, anchored
	// at max(now, previous expiry) so downtime gaps are not penalized.
	extension = 30 * 24 * time.Hour
)

type Gate struct {
	ServerURL string
	ClientID  string
	Key       string

	Store  *Store
	Client *http.Client

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewGate(serverURL, clientID, key string, store *Store) *Gate {
	return &Gate{
		ServerURL: serverURL,
		ClientID:  clientID,
		Key:       key,
		Store:     store,
		Client:    &http.Client{Timeout: 10 * time.Second},
		Now:       time.Now,
	}
}

// Check resolves the gate to Valid or Invalid. The cached expiry
// short-circuits when far enough from expiry; otherwise one remote
// validation call decides, with a grace fallback on transient failures
// while the cached value is still in the future.
func (g *Gate) Check() (State, error) {
	now := g.Now().UTC()

	cached, hasCached := g.Store.ValidUntil(g.ClientID)
	if hasCached && cached.Sub(now) >= refreshThreshold {
		return Valid, nil
	}

	status, err := g.validateRemote()
	switch {
	case err == nil && status == http.StatusOK:
		anchor := now
		if hasCached && cached.After(anchor) {
			anchor = cached
		}
		newExpiry := anchor.Add(extension)
		if err := g.Store.SetValidUntil(g.ClientID, g.Key, newExpiry); err != nil {
			log.Printf("[license] Failed to persist new expiry: %v", err)
		}
		return Valid, nil

	case err == nil && status == http.StatusForbidden:
		return Invalid, ErrLicenseRejected

	default:
		// Server unreachable or answered with something unexpected. A
		// still-unexpired cached value authorizes this run.
		if hasCached && cached.After(now) {
			log.Printf("[license] Validation unavailable (status=%d err=%v), running on cached license until %s", status, err, cached)
			return Valid, nil
		}
		if err == nil {
			err = fmt.Errorf("unexpected license server status %d", status)
		}
		return Invalid, fmt.Errorf("%w: %v", ErrLicenseExpired, err)
	}
}

func (g *Gate) validateRemote() (int, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":   g.ClientID,
		"license_key": g.Key,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, g.ServerURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	return res.StatusCode, nil
}
