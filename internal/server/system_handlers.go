package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/coinfolio/internal/database"
	"github.com/aristath/coinfolio/internal/modules/portfolio"
	"github.com/aristath/coinfolio/internal/scheduler"
)

// SnapshotSource exposes the current valuation state
type SnapshotSource interface {
	Snapshot() (portfolio.Snapshot, bool)
}

// SystemHandlers handles system status and job triggers
type SystemHandlers struct {
	log       zerolog.Logger
	snapshots SnapshotSource
	jobs      map[string]scheduler.Job
	databases []*database.DB
	startedAt time.Time
	now       func() time.Time

	// overridable so tests need not sample the host
	systemStats func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, snapshots SnapshotSource, jobs []scheduler.Job, databases ...*database.DB) *SystemHandlers {
	h := &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		snapshots: snapshots,
		jobs:      make(map[string]scheduler.Job, len(jobs)),
		databases: databases,
		startedAt: time.Now(),
		now:       time.Now,
	}
	for _, j := range jobs {
		if j != nil {
			h.jobs[j.Name()] = j
		}
	}
	h.systemStats = h.getSystemStats
	return h
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status        string                     `json:"status"`
	UptimeSeconds float64                    `json:"uptime_seconds"`
	CPUPercent    float64                    `json:"cpu_percent"`
	MemoryPercent float64                    `json:"memory_percent"`
	Goroutines    int                        `json:"goroutines"`
	Snapshot      *SnapshotStatus            `json:"snapshot"`
	Databases     map[string]*database.Stats `json:"databases"`
	Jobs          []string                   `json:"jobs"`
}

// SnapshotStatus describes the current valuation
type SnapshotStatus struct {
	ID         string           `json:"id"`
	Source     portfolio.Source `json:"source"`
	FetchedAt  string           `json:"fetched_at"`
	AgeSeconds float64          `json:"age_seconds"`
	AssetCount int              `json:"asset_count"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	cpuPercent, memPercent := h.systemStats()

	resp := SystemStatusResponse{
		Status:        "starting",
		UptimeSeconds: now.Sub(h.startedAt).Seconds(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		Databases:     make(map[string]*database.Stats, len(h.databases)),
		Jobs:          make([]string, 0, len(h.jobs)),
	}

	if snap, ok := h.snapshots.Snapshot(); ok {
		resp.Status = "ok"
		resp.Snapshot = &SnapshotStatus{
			ID:         snap.ID,
			Source:     snap.Source,
			FetchedAt:  snap.FetchedAt.Format(time.RFC3339),
			AgeSeconds: snap.Age(now).Seconds(),
			AssetCount: len(snap.Assets),
		}
	}

	for _, db := range h.databases {
		if db == nil {
			continue
		}
		stats, err := db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to get database stats")
			continue
		}
		resp.Databases[db.Name()] = stats
	}

	for name := range h.jobs {
		resp.Jobs = append(resp.Jobs, name)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleTriggerJob handles POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	job, ok := h.jobs[name]
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown job: " + name})
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job trigger")
	start := h.now()
	if err := job.Run(); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manually triggered job failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"job":         name,
		"duration_ms": h.now().Sub(start).Milliseconds(),
	})
}

// getSystemStats returns CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the request fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
