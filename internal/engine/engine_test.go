package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosnap/ecosnap/internal/geo"
	"github.com/ecosnap/ecosnap/internal/history"
	"github.com/ecosnap/ecosnap/internal/imaging"
	"github.com/ecosnap/ecosnap/internal/model"
	"github.com/ecosnap/ecosnap/internal/testutil"
	"github.com/ecosnap/ecosnap/internal/vision"
)

type fakeClassifier struct {
	outcome vision.Outcome
	calls   int
}

func (f *fakeClassifier) Classify(_ context.Context, _ imaging.TransportImage) vision.Outcome {
	f.calls++
	return f.outcome
}

type blockingClassifier struct {
	release <-chan struct{}
	outcome vision.Outcome
}

func (b *blockingClassifier) Classify(_ context.Context, _ imaging.TransportImage) vision.Outcome {
	<-b.release
	return b.outcome
}

type fakeAdvisor struct {
	lastLocation *model.Location
}

func (f *fakeAdvisor) Suggest(category model.WasteCategory, loc *model.Location) []string {
	f.lastLocation = loc
	return []string{"Rinse before recycling.", "Check local rules."}
}

func testImage() imaging.TransportImage {
	return imaging.TransportImage{Data: []byte("jpeg-bytes"), MIME: "image/jpeg"}
}

func newTestEngine(t *testing.T, classifier Classifier) *Engine {
	t.Helper()

	store := history.NewStore(testutil.NewMemoryKV())
	require.NoError(t, store.Load(context.Background()))

	eng, err := New(Config{
		Classifier: classifier,
		Advisor:    &fakeAdvisor{},
		Locator:    &geo.StaticLocator{Lat: 34.05, Lon: -118.24},
		History:    store,
	})
	require.NoError(t, err)
	return eng
}

func plasticOutcome() vision.Outcome {
	return vision.Outcome{
		Category:   model.CategoryPlastic,
		Confidence: 0.92,
		Reasoning:  "Clear PET bottle with recycling mark.",
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{Classifier: &fakeClassifier{}})
	assert.Error(t, err)
}

func TestFullFlow(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})
	ctx := context.Background()

	assert.Equal(t, StateIdle, eng.Session().State)

	require.NoError(t, eng.SelectImage(testImage()))
	assert.Equal(t, StateImageSelected, eng.Session().State)

	require.NoError(t, eng.Classify(ctx))
	sess := eng.Session()
	assert.Equal(t, StateResultReady, sess.State)
	require.NotNil(t, sess.Result)
	assert.Equal(t, model.CategoryPlastic, sess.Result.Category)
	require.NotNil(t, sess.Result.Confidence)
	assert.InDelta(t, 0.92, *sess.Result.Confidence, 1e-9)
	assert.Empty(t, sess.Result.ID, "id is assigned on save")
	assert.NotEmpty(t, sess.Result.Suggestions)
	require.NotNil(t, sess.Result.Location)
	assert.InDelta(t, 34.05, sess.Result.Location.Lat, 1e-9)

	require.NoError(t, eng.Save(ctx))
	sess = eng.Session()
	assert.Equal(t, StateSaved, sess.State)
	assert.NotEmpty(t, sess.Result.ID)
	assert.Equal(t, 1, eng.History().Len())
}

func TestClassifyRequiresSelectedImage(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})
	ctx := context.Background()

	err := eng.Classify(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// No re-entry while a classification is notionally in flight: the
	// state after a completed run is ResultReady, not ImageSelected.
	require.NoError(t, eng.SelectImage(testImage()))
	require.NoError(t, eng.Classify(ctx))
	err = eng.Classify(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfigFailureReturnsToImageSelected(t *testing.T) {
	classifier := &fakeClassifier{outcome: vision.Outcome{
		Category:  model.CategoryUnknown,
		Reasoning: "API Key for the classifier is not configured. Please contact support or check setup.",
	}}
	eng := newTestEngine(t, classifier)
	ctx := context.Background()

	require.NoError(t, eng.SelectImage(testImage()))
	err := eng.Classify(ctx)
	require.Error(t, err)

	sess := eng.Session()
	assert.Equal(t, StateImageSelected, sess.State)
	assert.False(t, sess.Image.Empty(), "image is retained for retry")
	assert.Contains(t, sess.Err, "API Key")
	assert.Nil(t, sess.Result)
}

func TestTransientFailureStillProducesResult(t *testing.T) {
	classifier := &fakeClassifier{outcome: vision.Outcome{
		Category:   model.CategoryUnknown,
		Confidence: 0.5,
		Reasoning:  "Error: The classification service could not be reached.",
	}}
	eng := newTestEngine(t, classifier)
	ctx := context.Background()

	require.NoError(t, eng.SelectImage(testImage()))
	require.NoError(t, eng.Classify(ctx))

	sess := eng.Session()
	assert.Equal(t, StateResultReady, sess.State)
	assert.Equal(t, model.CategoryUnknown, sess.Result.Category)
}

func TestSaveIsIdempotent(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})
	ctx := context.Background()

	require.NoError(t, eng.SelectImage(testImage()))
	require.NoError(t, eng.Classify(ctx))
	require.NoError(t, eng.Save(ctx))
	first := eng.Session().Result.ID

	require.NoError(t, eng.Save(ctx))
	assert.Equal(t, first, eng.Session().Result.ID)
	assert.Equal(t, 1, eng.History().Len())
}

func TestSaveRequiresResult(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})
	ctx := context.Background()

	err := eng.Save(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, eng.SelectImage(testImage()))
	err = eng.Save(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSaveStoresThumbnail(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})
	ctx := context.Background()

	require.NoError(t, eng.SelectImage(testImage()))
	require.NoError(t, eng.Classify(ctx))
	require.NoError(t, eng.Save(ctx))

	entries := eng.History().Entries()
	require.Len(t, entries, 1)
	// The fake image bytes do not decode, so the placeholder stands in.
	assert.True(t, imaging.IsPlaceholder(imaging.TransportImage{
		Data: entries[0].ImageData,
		MIME: entries[0].ImageMIME,
	}))
}

func TestSelectImageResetsResult(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})
	ctx := context.Background()

	require.NoError(t, eng.SelectImage(testImage()))
	require.NoError(t, eng.Classify(ctx))
	require.NoError(t, eng.Save(ctx))

	require.NoError(t, eng.SelectImage(testImage()))
	sess := eng.Session()
	assert.Equal(t, StateImageSelected, sess.State)
	assert.Nil(t, sess.Result)
	assert.Empty(t, sess.Err)
}

func TestSelectImageRejectsEmpty(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})

	err := eng.SelectImage(imaging.TransportImage{})
	assert.Error(t, err)
	assert.Equal(t, StateIdle, eng.Session().State)
}

func TestDeleteClosesOpenDetailView(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})
	ctx := context.Background()

	require.NoError(t, eng.SelectImage(testImage()))
	require.NoError(t, eng.Classify(ctx))
	require.NoError(t, eng.Save(ctx))
	id := eng.Session().Result.ID

	eng.OpenDetail(id)
	assert.Equal(t, id, eng.Session().DetailID)

	require.NoError(t, eng.DeleteHistoryItem(ctx, id))
	assert.Empty(t, eng.Session().DetailID)
	assert.Equal(t, 0, eng.History().Len())
}

func TestDeleteKeepsUnrelatedDetailView(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})
	ctx := context.Background()

	for range 2 {
		require.NoError(t, eng.SelectImage(testImage()))
		require.NoError(t, eng.Classify(ctx))
		require.NoError(t, eng.Save(ctx))
	}
	entries := eng.History().Entries()
	require.Len(t, entries, 2)

	eng.OpenDetail(entries[0].ID)
	require.NoError(t, eng.DeleteHistoryItem(ctx, entries[1].ID))
	assert.Equal(t, entries[0].ID, eng.Session().DetailID)
}

func TestClearHistoryClosesDetailView(t *testing.T) {
	eng := newTestEngine(t, &fakeClassifier{outcome: plasticOutcome()})
	ctx := context.Background()

	require.NoError(t, eng.SelectImage(testImage()))
	require.NoError(t, eng.Classify(ctx))
	require.NoError(t, eng.Save(ctx))
	eng.OpenDetail(eng.Session().Result.ID)

	require.NoError(t, eng.ClearHistory(ctx))
	assert.Empty(t, eng.Session().DetailID)
	assert.Equal(t, 0, eng.History().Len())

	// Clearing never disturbs the session flow itself.
	assert.Equal(t, StateSaved, eng.Session().State)
}

// Surfaces run Classify off the render goroutine, so session reads
// race a classification in flight. Under -race this fails if the
// snapshot is not synchronized; the read loop finishing before the
// classifier is released also shows reads never block on the call.
func TestSessionReadsDuringClassify(t *testing.T) {
	release := make(chan struct{})
	eng := newTestEngine(t, &blockingClassifier{release: release, outcome: plasticOutcome()})
	ctx := context.Background()

	require.NoError(t, eng.SelectImage(testImage()))

	done := make(chan error, 1)
	go func() { done <- eng.Classify(ctx) }()

	for eng.Session().State != StateClassifying {
	}
	for range 1000 {
		_ = eng.Session()
		_ = eng.HistoryEntries()
	}
	close(release)

	require.NoError(t, <-done)
	assert.Equal(t, StateResultReady, eng.Session().State)
}

func TestLocationResolvedOncePerEngine(t *testing.T) {
	classifier := &fakeClassifier{outcome: plasticOutcome()}
	advisor := &fakeAdvisor{}

	store := history.NewStore(testutil.NewMemoryKV())
	require.NoError(t, store.Load(context.Background()))

	eng, err := New(Config{
		Classifier: classifier,
		Advisor:    advisor,
		History:    store,
	})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, eng.SelectImage(testImage()))
	require.NoError(t, eng.Classify(ctx))
	assert.Nil(t, advisor.lastLocation, "no locator configured")
	assert.Nil(t, eng.Session().Result.Location)
}
