package util

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPError_WritesJSONBody(t *testing.T) {
	// Mock
	request := httptest.NewRequest("GET", "http://localhost/discover/landsat?bbox=oops", nil)
	recorder := httptest.NewRecorder()

	// Tested code
	HTTPError(request, recorder, &BasicLogContext{}, "The bbox value of oops is invalid", http.StatusBadRequest)

	// Asserts
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	parsed := map[string]string{}
	err := json.Unmarshal(recorder.Body.Bytes(), &parsed)
	assert.Nil(t, err, "Expected a JSON error body, got: %s", recorder.Body.String())
	assert.Equal(t, "The bbox value of oops is invalid", parsed["error"])
}

func TestReqByObjJSON_RoundTrip(t *testing.T) {
	// Mock
	type echo struct {
		Message string `json:"message"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in echo
		json.NewDecoder(r.Body).Decode(&in)
		json.NewEncoder(w).Encode(echo{Message: in.Message + " back"})
	}))
	defer server.Close()

	// Tested code
	var out echo
	body, err := ReqByObjJSON("POST", server.URL, "", echo{Message: "hello"}, &out)

	// Asserts
	assert.Nil(t, err, "Expected request not to error, but it did: %v", err)
	assert.NotEmpty(t, body)
	assert.Equal(t, "hello back", out.Message)
}

func TestReqByObjJSON_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := ReqByObjJSON("GET", server.URL, "", nil, nil)

	assert.NotNil(t, err, "Expected an upstream 502 to surface as an error")
	httpErr, ok := err.(HTTPErr)
	assert.True(t, ok, "Expected an HTTPErr, got %T", err)
	assert.Equal(t, http.StatusBadGateway, httpErr.Status)
}

func TestLogSimpleErr_ReturnsCombinedError(t *testing.T) {
	err := LogSimpleErr(&BasicLogContext{}, "Failed to open scene list: ", assert.AnError)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "Failed to open scene list: ")
	assert.Contains(t, err.Error(), assert.AnError.Error())
}

func TestErrorPrefersSimpleMessage(t *testing.T) {
	err := Error{LogMsg: "a detailed log-only explanation", SimpleMsg: "Something went wrong upstream."}
	assert.Equal(t, "Something went wrong upstream.", err.Error())

	logOnly := Error{LogMsg: "a detailed log-only explanation"}
	assert.Equal(t, "a detailed log-only explanation", logOnly.Error())
}
