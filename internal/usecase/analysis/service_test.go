package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/clientbrief/clientbrief/errors"
	"github.com/clientbrief/clientbrief/internal/domain/entities"
	pkgai "github.com/clientbrief/clientbrief/pkg/ai"
)

type fakeAnalyzer struct {
	model        string
	analysis     *entities.ClientAnalysis
	brief        *entities.DesignBrief
	prompt       string
	png          []byte
	err          error
	analyzeCalls int
	briefCalls   int
	promptCalls  int
	imageCalls   int
}

func (f *fakeAnalyzer) Model() string { return f.model }

func (f *fakeAnalyzer) AnalyzeDialogue(ctx context.Context, transcript string) (*entities.ClientAnalysis, error) {
	f.analyzeCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

func (f *fakeAnalyzer) ExtractDesignBrief(ctx context.Context, transcript string) (*entities.DesignBrief, error) {
	f.briefCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.brief, nil
}

func (f *fakeAnalyzer) DraftImagePrompt(ctx context.Context, brief *entities.DesignBrief) (string, error) {
	f.promptCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.prompt, nil
}

func (f *fakeAnalyzer) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.imageCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.png, nil
}

type fakeCache struct {
	entries  map[string][]byte
	storeErr error
	stores   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Lookup(fingerprint string, out interface{}) bool {
	raw, ok := c.entries[fingerprint]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (c *fakeCache) Store(fingerprint, model, promptVersion string, record interface{}) error {
	c.stores++
	if c.storeErr != nil {
		return c.storeErr
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	c.entries[fingerprint] = raw
	return nil
}

func (c *fakeCache) seed(t *testing.T, fingerprint string, record interface{}) {
	t.Helper()
	raw, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("seeding cache: %v", err)
	}
	c.entries[fingerprint] = raw
}

type fakeImages struct {
	paths  map[string]string
	stores int
}

func newFakeImages() *fakeImages {
	return &fakeImages{paths: make(map[string]string)}
}

func (f *fakeImages) Lookup(prompt string) (string, bool) {
	path, ok := f.paths[prompt]
	return path, ok
}

func (f *fakeImages) Store(prompt string, png []byte) (string, error) {
	f.stores++
	path := "assets/design_test.png"
	f.paths[prompt] = path
	return path, nil
}

func validAnalysis() *entities.ClientAnalysis {
	return &entities.ClientAnalysis{
		ClientName:  "Maria",
		Topic:       "Bakery website",
		MainRequest: "Online ordering for pickup",
		Sentiment:   entities.Sentiment{Label: entities.SentimentPositive, Score: 4},
		Summary:     "Maria wants a refreshed site with ordering.",
		KeyPoints:   []string{"site is outdated", "orders come by phone"},
		NextSteps:   []string{"prepare proposal"},
	}
}

func testBrief() *entities.DesignBrief {
	brief := &entities.DesignBrief{
		ProjectName: "Sweet Crumb",
		Business:    "bakery",
		SiteGoal:    "take pickup orders online",
	}
	brief.Normalize()
	return brief
}

const testTranscript = "Maria: our site is outdated and orders still come by phone."

func TestGetClientAnalysis_CacheHitMakesNoAPICalls(t *testing.T) {
	fa := &fakeAnalyzer{model: "gpt-4o-mini"}
	fc := newFakeCache()
	fc.seed(t, Fingerprint(testTranscript, "gpt-4o-mini", pkgai.ClientReportPromptVersion), validAnalysis())

	svc := NewService(fa, fc, newFakeImages(), nil)

	got, err := svc.GetClientAnalysis(context.Background(), entities.NewTranscript(testTranscript, "test"), true)
	if err != nil {
		t.Fatalf("GetClientAnalysis failed: %v", err)
	}
	if fa.analyzeCalls != 0 {
		t.Fatalf("cache hit must make zero API calls, got %d", fa.analyzeCalls)
	}
	if got.ClientName != "Maria" {
		t.Fatalf("unexpected analysis %+v", got)
	}
}

func TestGetClientAnalysis_MissCallsAPIAndStores(t *testing.T) {
	fa := &fakeAnalyzer{model: "gpt-4o-mini", analysis: validAnalysis()}
	fc := newFakeCache()
	svc := NewService(fa, fc, newFakeImages(), nil)

	_, err := svc.GetClientAnalysis(context.Background(), entities.NewTranscript(testTranscript, "test"), true)
	if err != nil {
		t.Fatalf("GetClientAnalysis failed: %v", err)
	}
	if fa.analyzeCalls != 1 {
		t.Fatalf("expected 1 API call, got %d", fa.analyzeCalls)
	}
	if fc.stores != 1 {
		t.Fatalf("expected the result to be stored, got %d stores", fc.stores)
	}

	fingerprint := Fingerprint(testTranscript, "gpt-4o-mini", pkgai.ClientReportPromptVersion)
	if _, ok := fc.entries[fingerprint]; !ok {
		t.Fatal("expected cache entry under the computed fingerprint")
	}
}

func TestGetClientAnalysis_BypassForcesCallAndRefreshesEntry(t *testing.T) {
	stale := validAnalysis()
	stale.Summary = "stale summary"
	fresh := validAnalysis()

	fa := &fakeAnalyzer{model: "gpt-4o-mini", analysis: fresh}
	fc := newFakeCache()
	fingerprint := Fingerprint(testTranscript, "gpt-4o-mini", pkgai.ClientReportPromptVersion)
	fc.seed(t, fingerprint, stale)

	svc := NewService(fa, fc, newFakeImages(), nil)

	got, err := svc.GetClientAnalysis(context.Background(), entities.NewTranscript(testTranscript, "test"), false)
	if err != nil {
		t.Fatalf("GetClientAnalysis failed: %v", err)
	}
	if fa.analyzeCalls != 1 {
		t.Fatalf("bypass must call the API, got %d calls", fa.analyzeCalls)
	}
	if got.Summary == "stale summary" {
		t.Fatal("bypass must not return the cached record")
	}

	var stored entities.ClientAnalysis
	if err := json.Unmarshal(fc.entries[fingerprint], &stored); err != nil {
		t.Fatalf("decoding refreshed entry: %v", err)
	}
	if stored.Summary == "stale summary" {
		t.Fatal("bypass must refresh the cache entry")
	}
}

func TestGetClientAnalysis_InvalidCachedRecordIsAMiss(t *testing.T) {
	broken := validAnalysis()
	broken.KeyPoints = nil // fails schema validation

	fa := &fakeAnalyzer{model: "gpt-4o-mini", analysis: validAnalysis()}
	fc := newFakeCache()
	fc.seed(t, Fingerprint(testTranscript, "gpt-4o-mini", pkgai.ClientReportPromptVersion), broken)

	svc := NewService(fa, fc, newFakeImages(), nil)

	got, err := svc.GetClientAnalysis(context.Background(), entities.NewTranscript(testTranscript, "test"), true)
	if err != nil {
		t.Fatalf("invalid cache entry must not fail the run: %v", err)
	}
	if fa.analyzeCalls != 1 {
		t.Fatalf("invalid cache entry must trigger a fresh call, got %d", fa.analyzeCalls)
	}
	if len(got.KeyPoints) == 0 {
		t.Fatalf("expected regenerated analysis, got %+v", got)
	}
}

func TestGetClientAnalysis_StoreFailureIsNonFatal(t *testing.T) {
	fa := &fakeAnalyzer{model: "gpt-4o-mini", analysis: validAnalysis()}
	fc := newFakeCache()
	fc.storeErr = errors.New("disk full")

	svc := NewService(fa, fc, newFakeImages(), nil)

	got, err := svc.GetClientAnalysis(context.Background(), entities.NewTranscript(testTranscript, "test"), true)
	if err != nil {
		t.Fatalf("store failure must not fail the run: %v", err)
	}
	if got == nil {
		t.Fatal("expected analysis despite store failure")
	}
}

func TestGetClientAnalysis_PropagatesAPIErrorsUnchanged(t *testing.T) {
	cause := apperrors.ErrAIRequestFailed(errors.New("rate limited"))
	fa := &fakeAnalyzer{model: "gpt-4o-mini", err: cause}
	fc := newFakeCache()

	svc := NewService(fa, fc, newFakeImages(), nil)

	_, err := svc.GetClientAnalysis(context.Background(), entities.NewTranscript(testTranscript, "test"), true)
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.CodeOf(err) != apperrors.ErrorCode_AI_REQUEST_FAILED {
		t.Fatalf("error must pass through unchanged, got %v", err)
	}
	if fc.stores != 0 {
		t.Fatal("failed runs must not write cache entries")
	}
}

func TestGetClientAnalysis_RejectsEmptyTranscript(t *testing.T) {
	fa := &fakeAnalyzer{model: "gpt-4o-mini"}
	svc := NewService(fa, newFakeCache(), newFakeImages(), nil)

	_, err := svc.GetClientAnalysis(context.Background(), entities.NewTranscript("   \n", "test"), true)
	if err == nil {
		t.Fatal("expected error for empty transcript")
	}
	if apperrors.CodeOf(err) != apperrors.ErrorCode_INPUT_INVALID {
		t.Fatalf("expected INPUT_INVALID, got %v", err)
	}
	if fa.analyzeCalls != 0 {
		t.Fatal("empty transcript must not reach the API")
	}
}

func TestGetDesignBrief_CacheHitMakesNoAPICalls(t *testing.T) {
	fa := &fakeAnalyzer{model: "gpt-4o-mini"}
	fc := newFakeCache()
	fc.seed(t, Fingerprint(testTranscript, "gpt-4o-mini", pkgai.DesignBriefPromptVersion), testBrief())

	svc := NewService(fa, fc, newFakeImages(), nil)

	got, err := svc.GetDesignBrief(context.Background(), entities.NewTranscript(testTranscript, "test"), true)
	if err != nil {
		t.Fatalf("GetDesignBrief failed: %v", err)
	}
	if fa.briefCalls != 0 {
		t.Fatalf("cache hit must make zero API calls, got %d", fa.briefCalls)
	}
	if got.ProjectName != "Sweet Crumb" {
		t.Fatalf("unexpected brief %+v", got)
	}
}

func TestGetDesignBrief_SharesNoEntriesWithAnalysis(t *testing.T) {
	fa := &fakeAnalyzer{model: "gpt-4o-mini", brief: testBrief()}
	fc := newFakeCache()
	// A cached client analysis for the same transcript must not satisfy a
	// design brief request.
	fc.seed(t, Fingerprint(testTranscript, "gpt-4o-mini", pkgai.ClientReportPromptVersion), validAnalysis())

	svc := NewService(fa, fc, newFakeImages(), nil)

	_, err := svc.GetDesignBrief(context.Background(), entities.NewTranscript(testTranscript, "test"), true)
	if err != nil {
		t.Fatalf("GetDesignBrief failed: %v", err)
	}
	if fa.briefCalls != 1 {
		t.Fatalf("expected a fresh brief call, got %d", fa.briefCalls)
	}
}

func TestIllustrateBrief_FullyCachedCostsNothing(t *testing.T) {
	brief := testBrief()
	briefKey, err := briefCacheKey(brief)
	if err != nil {
		t.Fatalf("briefCacheKey failed: %v", err)
	}

	fa := &fakeAnalyzer{model: "gpt-4o-mini"}
	fc := newFakeCache()
	fc.seed(t, Fingerprint(briefKey, "gpt-4o-mini", pkgai.ImagePromptVersion), "warm bakery storefront")

	fi := newFakeImages()
	fi.paths["warm bakery storefront"] = "assets/design_cached.png"

	svc := NewService(fa, fc, fi, nil)

	path, err := svc.IllustrateBrief(context.Background(), brief, true)
	if err != nil {
		t.Fatalf("IllustrateBrief failed: %v", err)
	}
	if fa.promptCalls != 0 || fa.imageCalls != 0 {
		t.Fatalf("unchanged brief must cost no API calls, got prompt=%d image=%d", fa.promptCalls, fa.imageCalls)
	}
	if path != "assets/design_cached.png" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestIllustrateBrief_GeneratesAndStores(t *testing.T) {
	fa := &fakeAnalyzer{
		model:  "gpt-4o-mini",
		prompt: "warm bakery storefront",
		png:    []byte{0x89, 'P', 'N', 'G'},
	}
	fc := newFakeCache()
	fi := newFakeImages()

	svc := NewService(fa, fc, fi, nil)

	path, err := svc.IllustrateBrief(context.Background(), testBrief(), true)
	if err != nil {
		t.Fatalf("IllustrateBrief failed: %v", err)
	}
	if fa.promptCalls != 1 || fa.imageCalls != 1 {
		t.Fatalf("expected one prompt and one image call, got prompt=%d image=%d", fa.promptCalls, fa.imageCalls)
	}
	if fi.stores != 1 {
		t.Fatalf("expected image to be stored, got %d", fi.stores)
	}
	if path == "" {
		t.Fatal("expected a stored image path")
	}
	// The drafted prompt is cached for the next run.
	if fc.stores != 1 {
		t.Fatalf("expected prompt cache write, got %d", fc.stores)
	}
}
