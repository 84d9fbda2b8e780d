package sync

import (
	"context"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hard75/internal/models"
	"hard75/internal/progress"
	"hard75/internal/remote"
	"hard75/internal/store"
)

// fakeRemote is an in-memory remote.Store with hooks for failure injection
// and ordering assertions.
type fakeRemote struct {
	mu       stdsync.Mutex
	profiles map[string]remote.Profile
	days     map[string]map[int]models.DayRecord
	feedback []remote.Feedback

	failDays    map[int]bool // day numbers whose SaveDay fails
	daysHook    func()       // runs at the start of Days
	profileHook func()       // runs at the start of Profile
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		profiles: make(map[string]remote.Profile),
		days:     make(map[string]map[int]models.DayRecord),
		failDays: make(map[int]bool),
	}
}

func (f *fakeRemote) SaveProfile(_ context.Context, p remote.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.Email] = p
	return nil
}

func (f *fakeRemote) Profile(_ context.Context, email string) (*remote.Profile, error) {
	if f.profileHook != nil {
		f.profileHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[email]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return &p, nil
}

func (f *fakeRemote) AllProfiles(_ context.Context) ([]remote.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []remote.Profile
	for _, p := range f.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRemote) SaveDay(_ context.Context, email string, rec models.DayRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDays[rec.DayNumber] {
		return assert.AnError
	}
	if f.days[email] == nil {
		f.days[email] = make(map[int]models.DayRecord)
	}
	f.days[email][rec.DayNumber] = rec
	return nil
}

func (f *fakeRemote) Days(_ context.Context, email string) ([]models.DayRecord, error) {
	if f.daysHook != nil {
		f.daysHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DayRecord
	for _, rec := range f.days[email] {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRemote) SaveFeedback(_ context.Context, fb remote.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, fb)
	return nil
}

func fullDay(userID, dayNumber int) models.DayRecord {
	url := "file:///photos/day.jpg"
	return models.DayRecord{
		DayNumber:          dayNumber,
		UserID:             userID,
		Diet:               true,
		Reading:            true,
		NoAlcohol:          true,
		WaterIntake:        4.0,
		ProgressPictureURL: &url,
		IndoorWorkout:      &models.Workout{Duration: "00:45:00"},
		OutdoorWorkout:     &models.Workout{Duration: "00:50:00"},
	}
}

type fixture struct {
	mem    *store.Memory
	rem    *fakeRemote
	clock  *progress.Clock
	syncer Syncer
	userID int
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()
	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	nowFn := func() time.Time { return at }

	mem := store.NewMemory()
	rem := newFakeRemote()
	clock := progress.NewClock(mem, nowFn)
	recon := progress.NewReconciler(mem, clock, nowFn, nil)

	u := models.User{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com", PasswordHash: "x", City: "Porto", Height: 170}
	require.NoError(t, mem.Insert(context.Background(), &u))

	conn := ConnectivityFunc(func(context.Context) bool { return online })
	return &fixture{
		mem:    mem,
		rem:    rem,
		clock:  clock,
		syncer: New(mem, mem, rem, recon, conn, nil),
		userID: u.ID,
	}
}

func TestPushSkippedWhenOffline(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, false)
	require.NoError(t, fx.mem.Upsert(ctx, fullDay(fx.userID, 1)))

	err := fx.syncer.PushAll(ctx, fx.userID)
	assert.ErrorIs(t, err, ErrOffline)
	assert.Empty(t, fx.rem.days)
	assert.Empty(t, fx.rem.profiles)
}

func TestPullSkippedWhenOffline(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, false)

	err := fx.syncer.PullAll(ctx, fx.userID)
	assert.ErrorIs(t, err, ErrOffline)
}

func TestPushAllIsBestEffortPerDay(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, true)
	for day := 1; day <= 3; day++ {
		require.NoError(t, fx.mem.Upsert(ctx, fullDay(fx.userID, day)))
	}
	fx.rem.failDays[2] = true

	require.NoError(t, fx.syncer.PushAll(ctx, fx.userID))

	stored := fx.rem.days["ana@example.com"]
	assert.Len(t, stored, 2)
	assert.Contains(t, stored, 1)
	assert.Contains(t, stored, 3)
	assert.Contains(t, fx.rem.profiles, "ana@example.com")
}

func TestPullAllImportsReconcilesAndMerges(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, true)

	// Remote history: days 1-5 done, day 6 missing the progress picture.
	w1, w6 := 80.0, 76.5
	for day := 1; day <= 5; day++ {
		rec := fullDay(0, day)
		if day == 1 {
			rec.Weight = &w1
		}
		fx.rem.days["ana@example.com"] = appendDay(fx.rem.days["ana@example.com"], rec)
	}
	last := fullDay(0, 6)
	last.ProgressPictureURL = nil
	last.Weight = &w6
	fx.rem.days["ana@example.com"] = appendDay(fx.rem.days["ana@example.com"], last)

	fx.rem.profiles["ana@example.com"] = remote.Profile{
		FirstName: "Ana", LastName: "Soares", Email: "ana@example.com",
		Address: "Rua Nova 1", City: "Lisboa", Height: 171,
	}

	require.NoError(t, fx.syncer.PullAll(ctx, fx.userID))

	// Records landed locally under the local id with completion recomputed.
	records, err := fx.mem.AllForUser(ctx, fx.userID)
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.True(t, records[0].Completed)
	assert.False(t, records[5].Completed)

	// The clock resumed one past the last completed day.
	day, err := fx.clock.CurrentDay(ctx, fx.userID)
	require.NoError(t, err)
	assert.Equal(t, 6, day)

	// Remote won the mutable profile fields; id and credentials survived.
	u, err := fx.mem.ByID(ctx, fx.userID)
	require.NoError(t, err)
	assert.Equal(t, "Soares", u.LastName)
	assert.Equal(t, "Lisboa", u.City)
	assert.Equal(t, 171, u.Height)
	assert.Equal(t, "x", u.PasswordHash)

	// Weight lost was recomputed from local records and pushed back.
	assert.InDelta(t, 3.5, u.WeightLost, 1e-9)
	assert.InDelta(t, 3.5, fx.rem.profiles["ana@example.com"].WeightLost, 1e-9)
}

func appendDay(m map[int]models.DayRecord, rec models.DayRecord) map[int]models.DayRecord {
	if m == nil {
		m = make(map[int]models.DayRecord)
	}
	m[rec.DayNumber] = rec
	return m
}

func TestPullAllWithEmptyRemoteResetsToDayOne(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, true)
	require.NoError(t, fx.clock.SetCurrentDay(ctx, fx.userID, 40))

	require.NoError(t, fx.syncer.PullAll(ctx, fx.userID))

	day, err := fx.clock.CurrentDay(ctx, fx.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, day)
}

// The profile merge must only run after the day upserts and reconciliation
// have committed, because weight-loss recomputation reads local records.
func TestPullAllOrdersUpsertsBeforeProfileMerge(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, true)

	fx.rem.days["ana@example.com"] = appendDay(nil, fullDay(0, 1))
	fx.rem.profiles["ana@example.com"] = remote.Profile{FirstName: "Ana", Email: "ana@example.com"}

	var daysAtMerge int
	var dayAtMerge int
	fx.rem.profileHook = func() {
		records, err := fx.mem.AllForUser(ctx, fx.userID)
		require.NoError(t, err)
		daysAtMerge = len(records)
		dayAtMerge, err = fx.clock.CurrentDay(ctx, fx.userID)
		require.NoError(t, err)
	}

	require.NoError(t, fx.syncer.PullAll(ctx, fx.userID))
	assert.Equal(t, 1, daysAtMerge)
	assert.Equal(t, 2, dayAtMerge)
}

func TestPullAllInsertsUnknownProfile(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, true)

	fx.rem.profiles["ze@example.com"] = remote.Profile{
		FirstName: "Ze", Email: "ze@example.com", City: "Braga", WeightLost: 1.5,
	}
	other := models.User{Email: "ze@example.com"}
	require.NoError(t, fx.mem.Insert(ctx, &other))

	require.NoError(t, fx.syncer.PullAll(ctx, other.ID))

	u, err := fx.mem.ByEmail(ctx, "ze@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Braga", u.City)
	assert.InDelta(t, 1.5, u.WeightLost, 1e-9)
}

func TestUpdateWeightLostRequiresFirstDayWeight(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, true)
	require.NoError(t, fx.mem.Upsert(ctx, fullDay(fx.userID, 2)))

	lost, err := fx.syncer.UpdateWeightLost(ctx, fx.userID, false)
	require.NoError(t, err)
	assert.Zero(t, lost)
}

func TestUpdateWeightLostClampsToZero(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, true)

	w1, w2 := 80.0, 81.2
	first := fullDay(fx.userID, 1)
	first.Weight = &w1
	second := fullDay(fx.userID, 2)
	second.Weight = &w2
	require.NoError(t, fx.mem.Upsert(ctx, first))
	require.NoError(t, fx.mem.Upsert(ctx, second))

	lost, err := fx.syncer.UpdateWeightLost(ctx, fx.userID, false)
	require.NoError(t, err)
	assert.Zero(t, lost)
}

// Two concurrent pulls for the same user share one in-flight run.
func TestPullAllIsSingleFlightPerUser(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, true)

	var calls int32
	release := make(chan struct{})
	fx.rem.daysHook = func() {
		atomic.AddInt32(&calls, 1)
		<-release
	}

	var wg stdsync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, fx.syncer.PullAll(ctx, fx.userID))
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
