package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientImpl_CurrentUser(t *testing.T) {
	t.Run("decodes identity and sends bearer credential", func(t *testing.T) {
		var gotAuth string
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 42, "username": "jdoe", "email": "jdoe@example.com"})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		identity, err := client.CurrentUser(context.Background(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, "/api/users/current-user", gotPath)
		assert.Equal(t, "Bearer abc123", gotAuth)
		assert.Equal(t, Identity{Id: 42, Username: "jdoe", Email: "jdoe@example.com"}, identity)
	})

	t.Run("falls back to name when username is absent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 42, "name": "John Doe", "email": "jdoe@example.com"})
		}))
		defer server.Close()

		identity, err := NewClient(server.URL).CurrentUser(context.Background(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, "John Doe", identity.Username)
	})

	t.Run("classifies 401 and 403 as unauthorized", func(t *testing.T) {
		for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))

			_, err := NewClient(server.URL).CurrentUser(context.Background(), "expired")

			assert.ErrorIs(t, err, ErrUnauthorized)
			server.Close()
		}
	})

	t.Run("carries status and body for other failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).CurrentUser(context.Background(), "abc123")

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, "boom", statusErr.Body)
	})

	t.Run("blank 2xx body is an empty-response error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("   "))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).CurrentUser(context.Background(), "abc123")

		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("non-JSON 2xx body is a malformed-response error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>login page</html>"))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).CurrentUser(context.Background(), "abc123")

		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("transport failure surfaces as a plain error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // refuse connections

		_, err := NewClient(server.URL).CurrentUser(context.Background(), "abc123")

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})
}

func TestClientImpl_Projects(t *testing.T) {
	t.Run("passes userId and date as query parameters", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			_ = json.NewEncoder(w).Encode([]Project{{Id: 7, Name: "Apollo", Code: "APL"}})
		}))
		defer server.Close()

		projects, err := NewClient(server.URL).Projects(context.Background(), "abc123", 42, "2025-01-06")

		require.NoError(t, err)
		assert.Equal(t, "userId=42&date=2025-01-06", gotQuery)
		require.Len(t, projects, 1)
		assert.Equal(t, Project{Id: 7, Name: "Apollo", Code: "APL"}, projects[0])
	})

	t.Run("empty catalog decodes as empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("[]"))
		}))
		defer server.Close()

		projects, err := NewClient(server.URL).Projects(context.Background(), "abc123", 42, "2025-01-06")

		require.NoError(t, err)
		assert.Empty(t, projects)
	})
}

func TestClientImpl_TimesheetOverview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/42/timesheet-overview", r.URL.Path)
		assert.Equal(t, "2025-01-06", r.URL.Query().Get("fromDate"))
		assert.Equal(t, "2025-01-10", r.URL.Query().Get("toDate"))
		_, _ = w.Write([]byte(`[
			{"date":"2025-01-06","isWeekend":false,"isHoliday":false,
			 "allocated":{"detail":[{"code":"APL","name":"Apollo","hours":8}]},
			 "workLogs":{"totalHours":4.5,"detail":[{"done":"APL","hours":4.5}]}},
			{"date":"2025-01-07","isWeekend":false,"isHoliday":true,"allocated":null,"workLogs":null}
		]`))
	}))
	defer server.Close()

	overview, err := NewClient(server.URL).TimesheetOverview(context.Background(), "abc123", 42, "2025-01-06", "2025-01-10")

	require.NoError(t, err)
	require.Len(t, overview, 2)
	require.NotNil(t, overview[0].Allocated)
	assert.Equal(t, 8.0, overview[0].Allocated.Detail[0].Hours)
	require.NotNil(t, overview[0].WorkLogs)
	assert.Equal(t, 4.5, overview[0].WorkLogs.Detail[0].Hours)
	assert.True(t, overview[1].IsHoliday)
	assert.Nil(t, overview[1].Allocated)
}

func TestClientImpl_SubmitWorklogs(t *testing.T) {
	payload := SubmissionPayload{WorkLogs: []WorkLogEntry{
		{Date: "2025-01-06", Description: nil, WorkHours: 8, TypeOfWork: TypeOfWorkNormal, ProjectId: 7},
	}}

	t.Run("posts the payload and decodes JSON confirmation", func(t *testing.T) {
		var gotBody SubmissionPayload
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/api/user/worklogs", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_ = json.NewEncoder(w).Encode(Confirmation{Message: "saved"})
		}))
		defer server.Close()

		confirmation, err := NewClient(server.URL).SubmitWorklogs(context.Background(), "abc123", payload)

		require.NoError(t, err)
		assert.Equal(t, "saved", confirmation.Message)
		require.Len(t, gotBody.WorkLogs, 1)
		assert.Nil(t, gotBody.WorkLogs[0].Description)
		assert.Equal(t, TypeOfWorkNormal, gotBody.WorkLogs[0].TypeOfWork)
	})

	t.Run("empty 204 body synthesizes a confirmation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		confirmation, err := NewClient(server.URL).SubmitWorklogs(context.Background(), "abc123", payload)

		require.NoError(t, err)
		assert.Equal(t, "Worklog submitted successfully", confirmation.Message)
		assert.NotEmpty(t, confirmation.ReceiptId)
	})

	t.Run("non-JSON 2xx body is still success with raw text attached", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("OK"))
		}))
		defer server.Close()

		confirmation, err := NewClient(server.URL).SubmitWorklogs(context.Background(), "abc123", payload)

		require.NoError(t, err)
		assert.Equal(t, "Success", confirmation.Message)
		assert.Equal(t, "OK", confirmation.Response)
	})

	t.Run("failure keeps status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"duplicate worklog"}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).SubmitWorklogs(context.Background(), "abc123", payload)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
		assert.Contains(t, statusErr.Body, "duplicate worklog")
	})
}
