package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetdesk/sheetdesk/internal/core"
)

func newReader(s string) io.Reader { return strings.NewReader(s) }

func envelope(success bool, data any, message string, errs []string) []byte {
	payload := map[string]any{"success": success}
	if data != nil {
		payload["data"] = data
	}
	if message != "" {
		payload["message"] = message
	}
	if errs != nil {
		payload["errors"] = errs
	}
	b, _ := json.Marshal(payload)
	return b
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write(envelope(true, []core.Record{}, "", nil))
	}))
	defer srv.Close()

	client := New(srv.URL, WithTokenSource(func() string { return "tok-123" }))
	_, err := client.List(context.Background(), core.EntityTP)
	require.NoError(t, err)

	assert.Equal(t, "authorization tok-123", gotAuth,
		"the backend expects its own prefix, not Bearer")
}

func TestListDecodesEnvelopeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sheet/get/course", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write(envelope(true, []core.Record{
			{"pklCourseId": "c-1", "sectorName": "Electronics"},
		}, "", nil))
	}))
	defer srv.Close()

	rows, err := New(srv.URL).List(context.Background(), core.EntityCourse)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Electronics", rows[0].String("sectorName"))
}

func TestFailureEnvelopeBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(envelope(false, nil, "duplicate record", nil))
	}))
	defer srv.Close()

	err := New(srv.URL).Create(context.Background(), core.EntityTP, map[string]string{"tpId": "T1"})
	require.Error(t, err)

	apiErr := AsError(err)
	require.NotNil(t, apiErr, "structured failures unwrap to *Error")
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "duplicate record", apiErr.Message)
}

func TestUpdateSendsPatchWithFields(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotBody   map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write(envelope(true, nil, "updated", nil))
	}))
	defer srv.Close()

	err := New(srv.URL).Update(context.Background(), core.EntityScheme, "s-9",
		map[string]string{"schemeCode": "SCH-2"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/sheet/update/scheme/s-9", gotPath)
	assert.Equal(t, "SCH-2", gotBody["schemeCode"])
}

func TestSetEnabledEncodesState(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write(envelope(true, nil, "", nil))
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).SetEnabled(context.Background(), core.EntityTP, "t-1", 0))
	assert.Equal(t, "0", gotBody["bEnable"])
}

func TestBulkUploadSendsMultipartFile(t *testing.T) {
	var (
		gotPath  string
		gotName  string
		gotBytes []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotName = header.Filename
		buf := make([]byte, header.Size)
		file.Read(buf)
		gotBytes = buf
		w.Write(envelope(true, nil, "2 rows imported", nil))
	}))
	defer srv.Close()

	err := New(srv.URL).BulkUpload(context.Background(), core.SheetTarget,
		"targets.xlsx", newReader("sheet-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/sheet/bulk/target", gotPath)
	assert.Equal(t, "targets.xlsx", gotName)
	assert.Equal(t, "sheet-bytes", string(gotBytes))
}

func TestBulkUploadRowErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(envelope(false, nil, "sheet contains invalid rows",
			[]string{"Row 3: missing candidateId"}))
	}))
	defer srv.Close()

	err := New(srv.URL).BulkUpload(context.Background(), core.SheetTP, "tp.xlsx", newReader("x"))
	require.Error(t, err)

	apiErr := AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, []string{"Row 3: missing candidateId"}, apiErr.Errors)
}

func TestLookupEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/general/states":
			w.Write(envelope(true, []Ref{{ID: "1", Name: "Karnataka"}}, "", nil))
		case "/general/districts":
			assert.Equal(t, "1", r.URL.Query().Get("stateId"))
			w.Write(envelope(true, []Ref{{ID: "11", Name: "Mysuru"}}, "", nil))
		case "/general/blocks":
			assert.Equal(t, "11", r.URL.Query().Get("districtId"))
			w.Write(envelope(true, []Ref{}, "", nil))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := New(srv.URL)
	ctx := context.Background()

	states, err := client.States(ctx)
	require.NoError(t, err)
	require.Len(t, states, 1)

	districts, err := client.Districts(ctx, states[0].ID)
	require.NoError(t, err)
	require.Len(t, districts, 1)

	_, err = client.Blocks(ctx, districts[0].ID)
	require.NoError(t, err)
}

func TestLookupQueryEscapesReservedCharacters(t *testing.T) {
	var gotState string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotState = r.URL.Query().Get("stateId")
		w.Write(envelope(true, []Ref{}, "", nil))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Districts(context.Background(), "a b&c=d")
	require.NoError(t, err)
	assert.Equal(t, "a b&c=d", gotState, "reserved characters must round-trip through the query")
}

func TestTransportErrorIsNotStructured(t *testing.T) {
	client := New("http://127.0.0.1:0")
	_, err := client.List(context.Background(), core.EntityTP)
	require.Error(t, err)
	assert.Nil(t, AsError(err), "transport failures carry no envelope")
}
