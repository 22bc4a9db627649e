package moderation

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// Permission represents a moderator capability.
type Permission string

const (
	PermissionViewQueue     Permission = "view_queue"
	PermissionResolveReport Permission = "resolve_report"
	PermissionBanUser       Permission = "ban_user"
	PermissionViewStats     Permission = "view_stats"
	PermissionViewAuditLog  Permission = "view_audit_log"
)

// RoleName represents the name of a moderation role.
type RoleName string

const (
	RoleAdmin     RoleName = "admin"
	RoleModerator RoleName = "moderator"
)

// Role defines a set of permissions for moderators.
type Role struct {
	Name        RoleName     `json:"-"` // Set from map key during loading
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
}

// HasPermission checks if this role has the given permission.
func (r *Role) HasPermission(perm Permission) bool {
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Moderator is one entry on the allow-list.
type Moderator struct {
	ActorID string   `json:"actor_id"`
	Role    RoleName `json:"role"`
	Note    string   `json:"note,omitempty"`
}

// RosterConfig is the moderator allow-list loaded from JSON.
type RosterConfig struct {
	Roles      map[RoleName]*Role `json:"roles"`
	Moderators []Moderator        `json:"moderators"`
}

// Validate checks that every moderator references a known role and
// stamps role names from their map keys.
func (c *RosterConfig) Validate() error {
	if c.Roles == nil {
		c.Roles = make(map[RoleName]*Role)
	}
	for _, m := range c.Moderators {
		if _, ok := c.Roles[m.Role]; !ok {
			return &RosterError{
				Field:   "moderators",
				Message: "moderator " + m.ActorID + " references unknown role: " + string(m.Role),
			}
		}
	}
	for name, role := range c.Roles {
		role.Name = name
	}
	return nil
}

// RosterError represents a roster validation error.
type RosterError struct {
	Field   string
	Message string
}

func (e *RosterError) Error() string {
	return "moderator roster error in " + e.Field + ": " + e.Message
}

// Roster answers "is this caller an authorized moderator" for every
// moderator-only operation. It is the engine's view of the identity
// collaborator: a JSON allow-list with role-based permissions.
type Roster struct {
	mu         sync.RWMutex
	config     *RosterConfig
	configPath string

	// Quick lookup map built from config
	actorRoles map[string]*Role
}

// NewRoster loads the moderator allow-list from configPath.
// If configPath is empty, the roster is in "disabled" mode where all
// permission checks return false.
func NewRoster(configPath string) (*Roster, error) {
	r := &Roster{
		configPath: configPath,
		actorRoles: make(map[string]*Role),
	}

	if configPath == "" {
		log.Info().Msg("roster: no config path provided, moderator operations disabled")
		return r, nil
	}

	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load moderator roster: %w", err)
	}

	return r, nil
}

func (r *Roster) load() error {
	data, err := os.ReadFile(r.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", r.configPath).Msg("roster: config file not found, moderator operations disabled")
			return nil
		}
		return fmt.Errorf("failed to read roster file: %w", err)
	}

	var config RosterConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse roster file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid roster: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.config = &config
	r.rebuildLookup()

	log.Info().
		Int("roles", len(config.Roles)).
		Int("moderators", len(config.Moderators)).
		Str("path", r.configPath).
		Msg("roster: loaded")

	return nil
}

// rebuildLookup rebuilds the quick lookup map from config.
// Caller must hold the write lock.
func (r *Roster) rebuildLookup() {
	r.actorRoles = make(map[string]*Role)
	if r.config == nil {
		return
	}
	for _, m := range r.config.Moderators {
		if role, ok := r.config.Roles[m.Role]; ok {
			r.actorRoles[m.ActorID] = role
		}
	}
}

// Reload reloads the roster from disk.
func (r *Roster) Reload() error {
	if r.configPath == "" {
		return nil
	}
	return r.load()
}

// IsEnabled returns true if the roster is configured with at least one moderator.
func (r *Roster) IsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config != nil && len(r.config.Moderators) > 0
}

// IsAdmin returns true if the given actor has the admin role.
func (r *Roster) IsAdmin(actorID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.actorRoles[actorID]
	return ok && role.Name == RoleAdmin
}

// IsModerator returns true if the given actor appears on the allow-list
// with any role. Admins count as moderators.
func (r *Roster) IsModerator(actorID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.actorRoles[actorID]
	return ok
}

// HasPermission returns true if the given actor has the specified permission.
func (r *Roster) HasPermission(actorID string, permission Permission) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.actorRoles[actorID]
	if !ok {
		return false
	}
	return role.HasPermission(permission)
}

// ListModerators returns all configured moderators.
func (r *Roster) ListModerators() []Moderator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.config == nil {
		return nil
	}

	// Return a copy to prevent external modification
	result := make([]Moderator, len(r.config.Moderators))
	copy(result, r.config.Moderators)
	return result
}
