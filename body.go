// Copyright 2026 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httplog

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/pjscruggs/httplog/internal/contentlog"
)

// requestContent adapts the request body for contentlog, or returns nil when
// the request carries no content.
func requestContent(req *http.Request) contentlog.Body {
	if req == nil || req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	return requestBody{req: req}
}

// responseContent adapts the response body for contentlog.
func responseContent(resp *http.Response) contentlog.Body {
	if resp == nil || resp.Body == nil || resp.Body == http.NoBody {
		return nil
	}
	return responseBody{resp: resp}
}

type requestBody struct {
	req *http.Request
}

func (b requestBody) ContentType() string {
	return mediaType(b.req.Header.Get("Content-Type"))
}

// ReadAll prefers GetBody, which yields an independent copy. Without it the
// body is drained and replaced by a replay of the same bytes, so the
// transport still sends identical content.
func (b requestBody) ReadAll() ([]byte, error) {
	if b.req.GetBody != nil {
		rc, err := b.req.GetBody()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	data, err := io.ReadAll(b.req.Body)
	b.req.Body = newReplayBody(data, err, b.req.Body)
	return data, err
}

type responseBody struct {
	resp *http.Response
}

func (b responseBody) ContentType() string {
	return mediaType(b.resp.Header.Get("Content-Type"))
}

// ReadAll drains the response body and installs a replay for the caller.
// Closing the replay closes the original body.
func (b responseBody) ReadAll() ([]byte, error) {
	data, err := io.ReadAll(b.resp.Body)
	b.resp.Body = newReplayBody(data, err, b.resp.Body)
	return data, err
}

// replayBody serves buffered bytes, then the original read error if any.
type replayBody struct {
	io.Reader
	closer io.Closer
}

func newReplayBody(data []byte, readErr error, orig io.Closer) io.ReadCloser {
	var r io.Reader = bytes.NewReader(data)
	if readErr != nil {
		r = io.MultiReader(r, errReader{err: readErr})
	}
	return &replayBody{Reader: r, closer: orig}
}

func (b *replayBody) Close() error {
	return b.closer.Close()
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

// mediaType strips parameters from a Content-Type value without changing
// its case.
func mediaType(contentType string) string {
	value, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(value)
}
