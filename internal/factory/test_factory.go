package factory

import (
	"time"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/mocks"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage/memory"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
