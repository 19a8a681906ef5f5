/*
scheduler.go - Working-day cache refresher

PURPOSE:
  Periodically recomputes the working-day count for every month of the
  current and next year and stores the results in the working_day_months
  table. Reports read the cached counts instead of iterating calendars
  on every request.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Recomputes from the holiday calendar on every tick
  - Upserts per-month rows, so a holiday added mid-year takes effect
    on the next tick

CONFIGURATION:
  - CheckInterval: How often to refresh (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewWorkingDaysScheduler(store)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ListWorkingDays endpoint
  - compliance/span.go: WorkingDaysInMonth
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/store/sqlite"
)

// WorkingDaysScheduler keeps the monthly working-day cache current.
type WorkingDaysScheduler struct {
	Store         *sqlite.Store
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewWorkingDaysScheduler creates a new scheduler.
func NewWorkingDaysScheduler(store *sqlite.Store) *WorkingDaysScheduler {
	return &WorkingDaysScheduler{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ws *WorkingDaysScheduler) Start() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ws.ticker = time.NewTicker(ws.CheckInterval)
	ws.wg.Add(1)

	go ws.run()

	log.Printf("[Scheduler] Started with check interval: %v", ws.CheckInterval)
}

// Stop stops the scheduler.
func (ws *WorkingDaysScheduler) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.ticker != nil {
		ws.ticker.Stop()
		close(ws.stop)
		ws.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ws *WorkingDaysScheduler) run() {
	defer ws.wg.Done()

	// Run immediately on start
	ws.refresh()

	for {
		select {
		case <-ws.ticker.C:
			ws.refresh()
		case <-ws.stop:
			return
		}
	}
}

func (ws *WorkingDaysScheduler) refresh() {
	ctx := context.Background()
	now := time.Now().UTC()

	from := compliance.NewDate(now.Year(), time.January, 1)
	to := compliance.NewDate(now.Year()+1, time.December, 31)

	holidays, err := ws.Store.FindActiveInRange(ctx, from, to)
	if err != nil {
		log.Printf("[Scheduler] Error loading holidays: %v", err)
		return
	}

	saved := 0
	for year := now.Year(); year <= now.Year()+1; year++ {
		for month := time.January; month <= time.December; month++ {
			count := compliance.WorkingDaysInMonth(year, month, holidays)
			err := ws.Store.SaveWorkingDays(ctx, sqlite.WorkingDayMonth{
				Year:        year,
				Month:       int(month),
				WorkingDays: count,
				ComputedAt:  now,
			})
			if err != nil {
				log.Printf("[Scheduler] Error saving %d-%02d: %v", year, month, err)
				continue
			}
			saved++
		}
	}

	log.Printf("[Scheduler] Refreshed working-day cache: %d months", saved)
}

// RunNow triggers an immediate refresh (for testing/admin).
func (ws *WorkingDaysScheduler) RunNow() {
	ws.refresh()
}
