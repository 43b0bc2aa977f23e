package assistedserver

import (
	"io"
	"net/http"
	"time"
)

type httpClient struct {
	*http.Client
}

func newHTTPClient(requestTimeout time.Duration) *httpClient {
	return &httpClient{&http.Client{Timeout: requestTimeout}}
}

func (c *httpClient) doRequest(req *http.Request) (int, []byte, error) {
	rs, err := c.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return -1, nil, err
	}
	return rs.StatusCode, bodyBytes, nil
}
