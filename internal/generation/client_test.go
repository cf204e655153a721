package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
	"github.com/taskflow-ai/taskflow-api/internal/platform/metrics"
)

type fakeProvider struct {
	response string
	err      error
	prompts  []Prompt
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, p Prompt) (string, error) {
	f.prompts = append(f.prompts, p)
	return f.response, f.err
}

func newTestClient(t *testing.T, p Provider) *Client {
	t.Helper()
	c, err := NewClient(p, nil, metrics.New())
	require.NoError(t, err)
	return c
}

func TestInvokeText(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{response: "  The team agreed on a budget.\n"}
	client := newTestClient(t, provider)

	res, err := client.Invoke(context.Background(), MustLoadPromptTemplate(SummaryTemplate),
		notesVars{NotesText: "notes"}, TextOutput())

	require.NoError(t, err)
	assert.Equal(t, "The team agreed on a budget.", res.Text)
	assert.Nil(t, res.Value)

	require.Len(t, provider.prompts, 1)
	sent := provider.prompts[0]
	assert.Equal(t, SummaryTemplate, sent.Name)
	assert.False(t, sent.JSON)
	assert.Nil(t, sent.Schema)
	assert.Contains(t, sent.User, "notes")
}

func TestInvokeStructured(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{response: `{"tasks": [{"description": "Ship it", "due_date": "2025-06-11"}]}`}
	client := newTestClient(t, provider)

	res, err := client.Invoke(context.Background(), MustLoadPromptTemplate(ExtractTasksTemplate),
		notesVars{NotesText: "notes"}, StructuredOutput(NewTaskListSchema()))

	require.NoError(t, err)
	due := domain.NewDate(2025, time.June, 11)
	assert.Equal(t, []domain.ExtractedTask{{Description: "Ship it", DueDate: &due}}, res.Value)

	sent := provider.prompts[0]
	assert.True(t, sent.JSON)
	require.NotNil(t, sent.Schema)
	assert.Equal(t, TypeObject, sent.Schema.Type)
}

func TestInvokeStructuredSchemaFailure(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, &fakeProvider{response: "Sorry, no JSON today."})

	_, err := client.Invoke(context.Background(), MustLoadPromptTemplate(ExtractTasksTemplate),
		notesVars{NotesText: "notes"}, StructuredOutput(NewTaskListSchema()))

	assert.ErrorIs(t, err, ErrSchemaValidation)
	assert.NotErrorIs(t, err, ErrProvider)
}

func TestInvokeProviderFailure(t *testing.T) {
	t.Parallel()

	t.Run("plain error is wrapped", func(t *testing.T) {
		client := newTestClient(t, &fakeProvider{err: errors.New("connection refused")})
		_, err := client.Invoke(context.Background(), MustLoadPromptTemplate(SummaryTemplate),
			notesVars{NotesText: "notes"}, TextOutput())

		assert.ErrorIs(t, err, ErrProvider)
		var pe *ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "fake", pe.Provider)
	})

	t.Run("provider error is preserved", func(t *testing.T) {
		cause := NewProviderError("fake", false, ErrContentBlocked)
		client := newTestClient(t, &fakeProvider{err: cause})
		_, err := client.Invoke(context.Background(), MustLoadPromptTemplate(SummaryTemplate),
			notesVars{NotesText: "notes"}, TextOutput())

		assert.ErrorIs(t, err, ErrProvider)
		assert.ErrorIs(t, err, ErrContentBlocked)
	})

	t.Run("empty response", func(t *testing.T) {
		client := newTestClient(t, &fakeProvider{response: "  "})
		_, err := client.Invoke(context.Background(), MustLoadPromptTemplate(SummaryTemplate),
			notesVars{NotesText: "notes"}, TextOutput())

		assert.ErrorIs(t, err, ErrProvider)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestInvokeInvalidArguments(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, &fakeProvider{response: "x"})

	_, err := client.Invoke(context.Background(), nil, nil, TextOutput())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = client.Invoke(context.Background(), MustLoadPromptTemplate(SummaryTemplate),
		notesVars{NotesText: "x"}, StructuredOutput(nil))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
