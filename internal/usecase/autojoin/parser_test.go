package autojoin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

const botOutput = `Launching browser...
Joined meeting as MeetMind Bot
==============================
[AUDIO_PATH] /tmp/recordings/meeting_1.wav
[SUMMARY] The team reviewed the release plan.
Deployment moves to Thursday.
[KEY_POINTS]
- Release plan approved
- QA needs two more days
ok
[INFO] uploading
[ACTION_ITEMS]
- Alice to update the changelog
- Bob to book the demo room
==============================
Done.
`

func TestParseOutput(t *testing.T) {
	s := ParseOutput(botOutput)

	assert.True(t, s.Found)
	assert.Equal(t, "/tmp/recordings/meeting_1.wav", s.AudioPath)
	assert.Equal(t, "The team reviewed the release plan.\nDeployment moves to Thursday.", s.Summary)
	assert.Equal(t, "- Release plan approved\n- QA needs two more days\nok", s.KeyPoints)
	assert.Equal(t, "- Alice to update the changelog\n- Bob to book the demo room", s.ActionItems)
	assert.True(t, s.HasAudio())
	assert.True(t, s.HasSummary())
}

func TestParseOutput_MissingTags(t *testing.T) {
	s := ParseOutput("[SUMMARY] only a summary\n")

	assert.True(t, s.Found)
	assert.Equal(t, "only a summary", s.Summary)
	assert.Equal(t, NotAvailable, s.AudioPath)
	assert.Equal(t, NotAvailable, s.KeyPoints)
	assert.Equal(t, NotAvailable, s.ActionItems)
	assert.False(t, s.HasAudio())
}

func TestParseOutput_NoTags(t *testing.T) {
	s := ParseOutput("Traceback (most recent call last):\n  boom\n")

	assert.False(t, s.Found)
	assert.False(t, s.HasSummary())
	assert.Equal(t, NotAvailable, s.Summary)
}

func TestParseOutput_LastOccurrenceWins(t *testing.T) {
	s := ParseOutput("[SUMMARY] draft\n[SUMMARY] final\n")
	assert.Equal(t, "final", s.Summary)
}

func TestParseOutput_AudioPathDoesNotContinue(t *testing.T) {
	s := ParseOutput("[AUDIO_PATH] /tmp/a.wav\nnot part of the path\n")
	assert.Equal(t, "/tmp/a.wav", s.AudioPath)
}

func TestParseKeyPoints(t *testing.T) {
	assert.Equal(t,
		[]string{"- Release plan approved", "- QA needs two more days"},
		ParseKeyPoints("- Release plan approved\n\n- QA needs two more days\nok\n[DEBUG] noise"),
	)
	assert.Equal(t, []string{entities.DefaultKeyPoint}, ParseKeyPoints(NotAvailable))
	assert.Equal(t, []string{entities.DefaultKeyPoint}, ParseKeyPoints(""))
}

func TestParseActionItems(t *testing.T) {
	items := ParseActionItems("Alice to update the changelog\nxx\nBob to book the demo room")
	assert.Equal(t, []entities.ActionItem{
		{Text: "Alice to update the changelog"},
		{Text: "Bob to book the demo room"},
	}, items)

	assert.Empty(t, ParseActionItems(NotAvailable))
	assert.NotNil(t, ParseActionItems(""))
}
