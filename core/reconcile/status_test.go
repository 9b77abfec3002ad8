package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gateway-manager/core/gateway"
	"gateway-manager/core/gateway/mocks"
	"gateway-manager/core/reconcile"
	"gateway-manager/core/source"
)

func TestCheckRule_Classification(t *testing.T) {
	tests := []struct {
		name        string
		description string
		content     string
		fetchErr    error
		expected    reconcile.UpdateStatus
	}{
		{
			name:        "no source url",
			description: "[CF_ADBLOCK_MGR_V1:PREFIX=ads_list_:HASH=5]",
			expected:    reconcile.StatusNoSourceURL,
		},
		{
			name:        "no hash data",
			description: "[CF_ADBLOCK_MGR_V1:URL=https://h.example.org/a.txt:PREFIX=ads_list_]",
			expected:    reconcile.StatusNoHashData,
		},
		{
			name:        "check failed",
			description: "[CF_ADBLOCK_MGR_V1:URL=https://h.example.org/a.txt:PREFIX=ads_list_:HASH=5]",
			fetchErr:    errors.New("connection refused"),
			expected:    reconcile.StatusCheckFailed,
		},
		{
			name:        "up to date",
			description: "[CF_ADBLOCK_MGR_V1:URL=https://h.example.org/a.txt:PREFIX=ads_list_:HASH=5]",
			content:     "12345",
			expected:    reconcile.StatusUpToDate,
		},
		{
			name:        "update available",
			description: "[CF_ADBLOCK_MGR_V1:URL=https://h.example.org/a.txt:PREFIX=ads_list_:HASH=5]",
			content:     "1234567",
			expected:    reconcile.StatusUpdateAvailable,
		},
		{
			name:        "plain rule without marker",
			description: "hand made",
			expected:    reconcile.StatusNoSourceURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.Client)
			client.On("Rule", mock.Anything, "r1").Return(gateway.Rule{
				ID: "r1", Name: "ads_rule", Description: tt.description,
			}, nil)

			fetcher := &fakeFetcher{
				err: tt.fetchErr,
				content: map[string]source.Content{
					"https://h.example.org/a.txt": {Data: []byte(tt.content), URL: "https://h.example.org/a.txt"},
				},
			}

			o := newOrchestrator(client, fetcher)
			report, err := o.CheckRule(context.Background(), "r1")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, report.Status)
		})
	}
}

// An updated rule flips from "Update available" to "Up to date" once
// its stored fingerprint matches the source again.
func TestSweep_UpdateCycle(t *testing.T) {
	content := "ads.example.com\ntracker.example.net\n"
	staleDesc := "[CF_ADBLOCK_MGR_V1:URL=https://h.example.org/a.txt:PREFIX=ads_list_:HASH=1]"

	client := new(mocks.Client)
	client.On("Rules", mock.Anything).Return([]gateway.Rule{
		{ID: "r1", Name: "ads_rule", Description: staleDesc},
		{ID: "r2", Name: "unmanaged", Description: "left alone"},
	}, nil).Once()

	fetcher := sourceWith("https://h.example.org/a.txt", content)
	o := newOrchestrator(client, fetcher)

	reports, err := o.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, reconcile.StatusUpdateAvailable, reports[0].Status)

	// After an update the stored fingerprint matches the content
	// length again.
	freshDesc := "[CF_ADBLOCK_MGR_V1:URL=https://h.example.org/a.txt:PREFIX=ads_list_:HASH=36]"
	client.On("Rules", mock.Anything).Return([]gateway.Rule{
		{ID: "r3", Name: "ads_rule", Description: freshDesc},
	}, nil).Once()

	reports, err = o.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, reconcile.StatusUpToDate, reports[0].Status)
}

func TestSweep_EmptyAccount(t *testing.T) {
	client := new(mocks.Client)
	client.On("Rules", mock.Anything).Return([]gateway.Rule{}, nil)

	o := newOrchestrator(client, &fakeFetcher{})

	reports, err := o.Sweep(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}
