package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitkit/prospecta-cli/internal/core/ports/driving"
)

// stubAnswerer returns a fixed answer and records the query.
type stubAnswerer struct {
	answer   string
	gotQuery string
	calls    int
}

func (s *stubAnswerer) Answer(_ context.Context, query string) string {
	s.calls++
	s.gotQuery = query
	return s.answer
}

// withStubAnswerer installs a stub pipeline and returns it with a
// restore function.
func withStubAnswerer(answer string) (*stubAnswerer, func()) {
	stub := &stubAnswerer{answer: answer}
	old := newAnswerer
	newAnswerer = func() (driving.Answerer, func(), error) {
		return stub, func() {}, nil
	}
	return stub, func() { newAnswerer = old }
}

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_PrintsAnswer(t *testing.T) {
	stub, restore := withStubAnswerer("You must have a valid GATE score.")
	defer restore()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "What is the M.Tech eligibility?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "You must have a valid GATE score.")
	assert.Equal(t, "What is the M.Tech eligibility?", stub.gotQuery)
}

func TestAskCmd_FAQShortCircuit(t *testing.T) {
	stub, restore := withStubAnswerer("should not be used")
	defer restore()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "Is a GATE score required for M.Tech admission?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "GATE score")
	// The pipeline is never built for an FAQ hit.
	assert.Zero(t, stub.calls)
}

func TestAskCmd_PipelineBuildError(t *testing.T) {
	old := newAnswerer
	newAnswerer = func() (driving.Answerer, func(), error) {
		return nil, nil, errors.New("collection \"MTECH_PROSPECTUS\" not found")
	}
	defer func() { newAnswerer = old }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything at all"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
