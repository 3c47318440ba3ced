package monitor

import (
	"time"

	"github.com/okian/biz/internal/domain/types"
	"github.com/okian/biz/internal/i18n"
)

// Tile is one status card of the dashboard. Color is empty for tiles that
// carry no status.
type Tile struct {
	Label string      `json:"label"`
	Value string      `json:"value"`
	Color types.Color `json:"color,omitempty"`
}

// Detail is one row of the system information table.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is a point-in-time copy of the monitor state, ready for rendering.
// Tiles and Details are only set in the ready phase.
type View struct {
	Phase     Phase               `json:"phase"`
	Health    *types.HealthStatus `json:"health,omitempty"`
	Error     string              `json:"error,omitempty"`
	UpdatedAt time.Time           `json:"updated_at"`
	Tiles     []Tile              `json:"tiles,omitempty"`
	Details   []Detail            `json:"details,omitempty"`
}

// Snapshot returns the current view.
func (m *Monitor) Snapshot() View {
	m.mu.RLock()
	v := View{
		Phase:     m.phase,
		Error:     m.errMsg,
		UpdatedAt: m.updatedAt,
	}
	if m.health != nil {
		cp := *m.health
		v.Health = &cp
	}
	m.mu.RUnlock()

	if v.Phase == PhaseReady && v.Health != nil {
		v.Tiles = Tiles(m.loc, v.Health)
		v.Details = Details(m.loc, v.Health)
	}
	return v
}

// Tiles renders the four status tiles for hs. A nil hs renders every field
// as missing.
func Tiles(loc *i18n.Localizer, hs *types.HealthStatus) []Tile {
	if hs == nil {
		hs = &types.HealthStatus{}
	}
	updated := types.NA
	if hs.Timestamp != "" {
		updated = loc.FormatTimestamp(hs.Timestamp)
	}
	return []Tile{
		statusTile(loc.T(i18n.ServiceStatus), hs.Status),
		statusTile(loc.T(i18n.RedisStatus), hs.Redis),
		statusTile(loc.T(i18n.MySQLStatus), hs.MySQL),
		{Label: loc.T(i18n.LastUpdated), Value: updated},
	}
}

func statusTile(label, status string) Tile {
	return Tile{Label: label, Value: types.OrUnknown(status), Color: types.StatusColor(status)}
}

// Details renders the system information table for hs.
func Details(loc *i18n.Localizer, hs *types.HealthStatus) []Detail {
	if hs == nil {
		hs = &types.HealthStatus{}
	}
	return []Detail{
		{Label: loc.T(i18n.ServiceName), Value: types.OrNA(hs.Service)},
		{Label: loc.T(i18n.RedisConnection), Value: types.OrNA(hs.Redis)},
		{Label: loc.T(i18n.MySQLConnection), Value: types.OrNA(hs.MySQL)},
		{Label: loc.T(i18n.SystemStatus), Value: types.OrNA(hs.Status)},
	}
}
