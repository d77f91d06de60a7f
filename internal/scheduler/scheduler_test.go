package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTrigger struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (r *recordingTrigger) Trigger(_ context.Context, platform string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, platform)
	if r.fail[platform] {
		return "", errors.New("scraper busy")
	}
	return platform + " scraping started in background.", nil
}

func TestRunOnce_TriggersEveryPlatform(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	trigger := &recordingTrigger{fail: map[string]bool{"2b": true}}
	s := New("@daily", []string{"amazon", "2b", "jumia"}, trigger, logger)

	s.RunOnce(context.Background())

	assert.Equal(t, []string{"amazon", "2b", "jumia"}, trigger.calls)
	errorsLogged := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errorsLogged++
		}
	}
	assert.Equal(t, 1, errorsLogged)
}

func TestRunOnce_StopsWhenContextCancelled(t *testing.T) {
	trigger := &recordingTrigger{}
	s := New("@daily", []string{"amazon", "jumia"}, trigger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)

	assert.Empty(t, trigger.calls)
}

func TestStart(t *testing.T) {
	s := New("", []string{"amazon"}, &recordingTrigger{}, nil)
	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	bad := New("every tuesday", []string{"amazon"}, &recordingTrigger{}, nil)
	assert.Error(t, bad.Start(context.Background()))

	ok := New("0 3 * * *", []string{"amazon"}, &recordingTrigger{}, nil)
	require.NoError(t, ok.Start(context.Background()))
	assert.Len(t, ok.cron.Entries(), 1)
	ok.Stop()
}
