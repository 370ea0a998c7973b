package monitoring

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	ws "github.com/promptlover/promptlover-be/internal/websocket"
)

// Stats is a point-in-time snapshot of gallery totals and host load.
type Stats struct {
	Prompts    int       `json:"prompts"`
	Users      int       `json:"users"`
	TotalLikes int       `json:"totalLikes"`
	TotalViews int       `json:"totalViews"`
	CPUPercent float64   `json:"cpuPercent"`
	MemPercent float64   `json:"memPercent"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StatsUpdater periodically collects gallery totals plus host CPU/memory and
// broadcasts them to connected feed clients.
type StatsUpdater struct {
	db     *sql.DB
	hub    *ws.Hub
	ticker *time.Ticker
	done   chan bool

	mu     sync.RWMutex
	latest Stats
}

// NewStatsUpdater creates a new StatsUpdater.
func NewStatsUpdater(db *sql.DB, hub *ws.Hub) *StatsUpdater {
	return &StatsUpdater{
		db:   db,
		hub:  hub,
		done: make(chan bool),
	}
}

// Run starts the periodic updates.
func (su *StatsUpdater) Run() {
	log.Info().Msg("Starting background stats updater...")
	su.ticker = time.NewTicker(15 * time.Second)
	defer su.ticker.Stop()

	// Run once immediately on start
	su.update()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stats updater.")
			return
		case <-su.ticker.C:
			su.update()
		}
	}
}

// Stop halts the updater.
func (su *StatsUpdater) Stop() {
	su.done <- true
}

// Latest returns the most recent snapshot.
func (su *StatsUpdater) Latest() Stats {
	su.mu.RLock()
	defer su.mu.RUnlock()
	return su.latest
}

func (su *StatsUpdater) update() {
	stats, err := su.Collect()
	if err != nil {
		log.Error().Err(err).Msg("Failed to collect gallery stats")
		return
	}

	su.mu.Lock()
	su.latest = stats
	su.mu.Unlock()

	if su.hub != nil {
		if msg, err := json.Marshal(ws.Message{Action: "stats.update", Payload: stats}); err == nil {
			su.hub.Broadcast <- msg
		}
	}
}

// Collect reads the gallery totals from the database and samples host load.
func (su *StatsUpdater) Collect() (Stats, error) {
	stats := Stats{UpdatedAt: time.Now()}

	row := su.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(likes), 0), COALESCE(SUM(views), 0) FROM prompts`)
	if err := row.Scan(&stats.Prompts, &stats.TotalLikes, &stats.TotalViews); err != nil {
		return Stats{}, err
	}
	if err := su.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&stats.Users); err != nil {
		return Stats{}, err
	}

	// Host load is best-effort; a sampling failure should not hide the
	// gallery totals.
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemPercent = vm.UsedPercent
	}

	return stats, nil
}
