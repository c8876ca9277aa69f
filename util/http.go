// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"
)

// HTTPErr is an error that carries an HTTP status code
type HTTPErr struct {
	Status  int
	Message string
}

func (err HTTPErr) Error() string {
	return err.Message
}

// Band files run to tens of megabytes; the timeout covers the full body read.
var defaultHTTPClient = &http.Client{Timeout: 120 * time.Second}

// HTTPClient returns the shared client for upstream requests
func HTTPClient() *http.Client {
	return defaultHTTPClient
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPError writes a JSON error body with the given status and audits the failure
func HTTPError(r *http.Request, w http.ResponseWriter, ctx LogContext, message string, status int) {
	severity := WARN
	if status >= 500 {
		severity = ERROR
	}
	LogAudit(ctx, LogAuditInput{
		Actor:    ctx.AppName(),
		Action:   fmt.Sprintf("%d response", status),
		Actee:    r.URL.String(),
		Message:  message,
		Severity: severity,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body, _ := json.Marshal(errorResponse{Error: message})
	w.Write(body)
}

// ReqByObjJSON sends a JSON request built from inpObj and unmarshals the JSON
// response into outpObj (a pointer, or nil to skip parsing). The raw response
// body is returned either way.
func ReqByObjJSON(method, inputURL, authKey string, inpObj, outpObj interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if inpObj != nil {
		requestBody, err := json.Marshal(inpObj)
		if err != nil {
			return nil, Error{
				LogMsg:    "Failed to marshal request object: " + err.Error(),
				SimpleMsg: "Internal error building upstream request.",
				URL:       inputURL,
			}
		}
		bodyReader = bytes.NewReader(requestBody)
	}

	request, err := http.NewRequest(method, inputURL, bodyReader)
	if err != nil {
		return nil, Error{LogMsg: "Failed to build upstream request: " + err.Error(), URL: inputURL}
	}
	request.Header.Set("Content-Type", "application/json")
	if authKey != "" {
		request.Header.Set("Authorization", authKey)
	}

	response, err := HTTPClient().Do(request)
	if err != nil {
		return nil, Error{LogMsg: "Upstream request failed: " + err.Error(), URL: inputURL}
	}
	defer response.Body.Close()

	body, _ := ioutil.ReadAll(response.Body)
	if response.StatusCode >= 300 {
		return body, HTTPErr{Status: response.StatusCode, Message: fmt.Sprintf("%s returned %s", inputURL, response.Status)}
	}

	if outpObj != nil {
		if err = json.Unmarshal(body, outpObj); err != nil {
			return body, Error{
				LogMsg:     "Failed to unmarshal upstream response: " + err.Error(),
				SimpleMsg:  "The upstream service returned an unexpected response.",
				Response:   string(body),
				URL:        inputURL,
				HTTPStatus: response.StatusCode,
			}
		}
	}

	return body, nil
}
