package pitchclient

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/roster"
	"golang.org/x/sync/errgroup"
)

// New creates a controller for the pitch served by api.
func New(api API, clk clock.Clock) *Controller {
	return &Controller{
		api:       api,
		clock:     clk,
		matchType: pitch.DefaultMatchType,
		slots:     make(map[string]roster.Player),
		positions: make(map[string]pitch.Position),
	}
}

// LoadInitial fetches the player pool and the pitch state together. Slot
// assignments pointing at players that no longer exist are dropped.
func (c *Controller) LoadInitial(ctx context.Context) error {
	var (
		players []roster.Player
		state   *pitch.State
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = c.api.ListPlayers(gctx)
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		state, err = c.api.GetPitchState(gctx)
		if err != nil {
			return fmt.Errorf("get pitch state: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool = players
	c.applyState(state)
	log.Debug("Loaded pitch", "version", state.Version, "players", len(players), "assigned", len(c.slots))
	return nil
}

// RefreshPlayerPool reloads the players that can be placed on the pitch.
func (c *Controller) RefreshPlayerPool(ctx context.Context) error {
	players, err := c.api.ListPlayers(ctx)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool = players
	byID := poolIndex(players)
	for slotID, p := range c.slots {
		if fresh, ok := byID[p.ID]; ok {
			c.slots[slotID] = fresh
		}
	}
	return nil
}

// PollTick fetches the server state once and applies it when it is newer than
// what the controller last saw. It reports whether anything was applied.
func (c *Controller) PollTick(ctx context.Context) (bool, error) {
	state, err := c.api.GetPitchState(ctx)
	if err != nil {
		return false, fmt.Errorf("poll pitch state: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cursor.Before(state.Cursor()) {
		return false, nil
	}
	log.Debug("Applying newer pitch state", "from", c.cursor.Version, "to", state.Version)
	c.applyState(state)
	return true, nil
}

// Run polls until ctx is done. Pending local edits that have not been pushed
// yet are abandoned on exit; call Flush first to keep them.
func (c *Controller) Run(ctx context.Context) {
	ticker := c.clock.Ticker(PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.stopPending()
			c.mu.Unlock()
			return
		case <-ticker.C:
			if _, err := c.PollTick(ctx); err != nil {
				log.Warn("Pitch poll failed", "error", err)
			}
		}
	}
}

// AddPlayerToSlot places p in slotID, replacing whoever was there.
func (c *Controller) AddPlayerToSlot(slotID string, p roster.Player) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkSlot(slotID); err != nil {
		return err
	}
	c.slots[slotID] = p
	c.scheduleSync()
	return nil
}

// RemovePlayerFromSlot empties slotID.
func (c *Controller) RemovePlayerFromSlot(slotID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.slots[slotID]; !ok {
		return
	}
	delete(c.slots, slotID)
	c.scheduleSync()
}

// MovePlayer moves the player in from to to. An occupied target swaps places.
func (c *Controller) MovePlayer(from, to string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkSlot(to); err != nil {
		return err
	}
	moving, ok := c.slots[from]
	if !ok {
		return ErrEmptySlot
	}
	if from == to {
		return nil
	}
	if other, taken := c.slots[to]; taken {
		c.slots[from] = other
	} else {
		delete(c.slots, from)
	}
	c.slots[to] = moving
	c.scheduleSync()
	return nil
}

// SetPlayerPosition stores a free-form coordinate for a player.
func (c *Controller) SetPlayerPosition(playerID string, pos pitch.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positions[playerID] = pos
	c.scheduleSync()
}

// Join puts the viewer in an empty slot. Non-admins must respect the join
// gate and may only hold one slot.
func (c *Controller) Join(slotID string, viewer auth.Viewer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	gate := pitch.State{ScheduledAt: c.scheduledAt, IsActive: c.isActive}
	if err := pitch.CanJoin(gate, c.clock.Now(), viewer.IsAdmin); err != nil {
		return err
	}
	if err := c.checkSlot(slotID); err != nil {
		return err
	}
	if _, taken := c.slots[slotID]; taken {
		return ErrSlotTaken
	}
	if !viewer.IsAdmin {
		for _, p := range c.slots {
			if p.ID == viewer.ID {
				return ErrAlreadyOnPitch
			}
		}
	}

	p, ok := poolIndex(c.pool)[viewer.ID]
	if !ok {
		p = roster.Player{ID: viewer.ID, Name: viewer.Name, IsAdmin: viewer.IsAdmin}
	}
	c.slots[slotID] = p
	c.scheduleSync()
	return nil
}

// ClearPitch empties the pitch on the server right away and resets the local
// copy to match.
// Local edits survive a failed clear and are pushed as usual.
func (c *Controller) ClearPitch(ctx context.Context) error {
	c.mu.Lock()
	c.stopPending()
	c.mu.Unlock()

	state, err := c.api.ClearPitchState(ctx)
	if err != nil {
		c.mu.Lock()
		if c.dirty {
			c.scheduleSync()
		}
		c.mu.Unlock()
		return fmt.Errorf("clear pitch: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPending()
	c.dirty = false
	c.slots = make(map[string]roster.Player)
	c.positions = make(map[string]pitch.Position)
	c.formationA, c.formationB = nil, nil
	c.formationsDirty = false
	c.cursor = state.Cursor()
	return nil
}

// SetMatchType clears the pitch and switches to mt. Formations are reset.
func (c *Controller) SetMatchType(ctx context.Context, mt pitch.MatchType) error {
	if !mt.Valid() {
		return fmt.Errorf("unknown match type %q", mt)
	}
	if err := c.ClearPitch(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchType = mt
	c.formationsDirty = true
	c.scheduleSync()
	return nil
}

// ApplyFormations records the formations of both teams and packs the starting
// players into the first slots of their sides in slot order. Bench slots are
// left alone.
func (c *Controller) ApplyFormations(teamA, teamB string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	layout, err := pitch.LayoutFor(c.matchType)
	if err != nil {
		return err
	}

	for _, team := range []pitch.Team{pitch.TeamA, pitch.TeamB} {
		ids := layout.StartingSlots(team)
		starters := make([]roster.Player, 0, len(ids))
		for _, id := range ids {
			if p, ok := c.slots[id]; ok {
				starters = append(starters, p)
				delete(c.slots, id)
			}
		}
		for i, p := range starters {
			c.slots[ids[i]] = p
		}
	}

	c.formationA = optional(teamA)
	c.formationB = optional(teamB)
	c.formationsDirty = true
	c.scheduleSync()
	return nil
}

// Flush pushes pending local edits now instead of waiting for the debounce.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	c.stopPending()
	c.mu.Unlock()
	return c.push(ctx)
}

// Snapshot returns a copy of the current local state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		MatchType:      c.matchType,
		Slots:          maps.Clone(c.slots),
		Pool:           slices.Clone(c.pool),
		ScheduledAt:    c.scheduledAt,
		IsActive:       c.isActive,
		TeamAFormation: c.formationA,
		TeamBFormation: c.formationB,
		Positions:      maps.Clone(c.positions),
		Cursor:         c.cursor,
	}
}

// BenchPlayers lists the players on the bench, team A first.
func (c *Controller) BenchPlayers() []roster.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	layout, err := pitch.LayoutFor(c.matchType)
	if err != nil {
		return nil
	}
	var out []roster.Player
	for _, team := range []pitch.Team{pitch.TeamA, pitch.TeamB} {
		for _, id := range layout.BenchSlotIDs(team) {
			if p, ok := c.slots[id]; ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// applyState replaces the local copy with state. c.mu must be held.
func (c *Controller) applyState(state *pitch.State) {
	byID := poolIndex(c.pool)
	slots := make(map[string]roster.Player, len(state.ActivePlayers))
	for _, a := range state.ActivePlayers {
		p, ok := byID[a.PlayerID]
		if !ok {
			log.Debug("Dropping unknown player from pitch", "slot", a.SlotID, "playerID", a.PlayerID)
			continue
		}
		slots[a.SlotID] = p
	}
	c.slots = slots
	c.matchType = state.MatchType
	c.scheduledAt = state.ScheduledAt
	c.isActive = state.IsActive
	c.formationA = state.TeamAFormation
	c.formationB = state.TeamBFormation
	c.formationsDirty = false
	c.positions = maps.Clone(state.PlayerPositions)
	if c.positions == nil {
		c.positions = make(map[string]pitch.Position)
	}
	c.cursor = state.Cursor()
	c.applied++
}

// checkSlot validates slotID against the current match type. c.mu must be held.
func (c *Controller) checkSlot(slotID string) error {
	layout, err := pitch.LayoutFor(c.matchType)
	if err != nil {
		return err
	}
	slot, err := pitch.ParseSlot(slotID)
	if err != nil || !slot.Fits(layout) {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slotID)
	}
	return nil
}

// scheduleSync restarts the debounce timer. c.mu must be held.
func (c *Controller) scheduleSync() {
	c.dirty = true
	c.stopPending()
	c.pending = c.clock.AfterFunc(DebounceDelay, c.syncPending)
}

func (c *Controller) stopPending() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) syncPending() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	if err := c.push(ctx); err != nil {
		log.Warn("Dropping pitch sync", "error", err)
	}
}

// push sends the local state to the server. A failed push is not retried; the
// next edit or poll brings the two back together.
func (c *Controller) push(ctx context.Context) error {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	upd := c.buildUpdate()
	c.dirty = false
	c.formationsDirty = false
	applied := c.applied
	c.mu.Unlock()

	started := c.clock.Now()
	state, err := c.api.UpdatePitchState(ctx, upd)
	if err != nil {
		return fmt.Errorf("update pitch state: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor.Before(state.Cursor()) {
		// A poll may have replaced the local view while this push was in
		// flight. Show what the server kept unless there are newer edits.
		if c.applied != applied && !c.dirty {
			c.applyState(state)
		} else {
			c.cursor = state.Cursor()
		}
	}
	log.Debug("Pushed pitch state", "version", state.Version, "took", c.clock.Now().Sub(started))
	return nil
}

// buildUpdate turns the local copy into a write. c.mu must be held.
func (c *Controller) buildUpdate() pitch.Update {
	mt := c.matchType
	active := make([]pitch.SlotAssignment, 0, len(c.slots))
	for _, slotID := range slices.Sorted(maps.Keys(c.slots)) {
		active = append(active, pitch.SlotAssignment{SlotID: slotID, PlayerID: c.slots[slotID].ID})
	}
	positions := maps.Clone(c.positions)
	if positions == nil {
		positions = make(map[string]pitch.Position)
	}

	upd := pitch.Update{
		MatchType:       &mt,
		ActivePlayers:   active,
		PlayerPositions: positions,
	}
	if c.formationsDirty {
		upd.TeamAFormation = nullable(c.formationA)
		upd.TeamBFormation = nullable(c.formationB)
	}
	return upd
}

func poolIndex(players []roster.Player) map[string]roster.Player {
	byID := make(map[string]roster.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return byID
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullable(s *string) pitch.Nullable[string] {
	if s == nil {
		return pitch.Null[string]()
	}
	return pitch.Value(*s)
}
