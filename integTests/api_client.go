// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package integTests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
	"github.com/gx5gyqe2-art/opcg-sim-backend/service/api"
)

// client is shared by all tests in this package, pointed at the server that
// TestMain boots (or at a local server with -useLocalServer).
var client *apiClient

// apiClient drives the public API over HTTP the way a simulator frontend
// would.
type apiClient struct {
	baseUrl string
	http    *http.Client
}

func newApiClient(baseUrl string) *apiClient {
	return &apiClient{
		baseUrl: baseUrl,
		http:    &http.Client{},
	}
}

func (c *apiClient) health() (map[string]any, error) {
	resp, err := c.http.Get(c.baseUrl + api.PathHealth)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := decodeResponse(resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) createGame(req data_models.CreateGameRequest) (*data_models.CreateGameResponse, error) {
	var out data_models.CreateGameResponse
	err := c.postJson(api.PathCreateGame, "", req, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) gameState(gameId, observerId string) (*data_models.GameStateResponse, error) {
	path := fmt.Sprintf("/api/game/%v/state", gameId)
	resp, err := c.http.Get(c.baseUrl + path + observerQuery(observerId))
	if err != nil {
		return nil, err
	}
	var out data_models.GameStateResponse
	if err := decodeResponse(resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) applyAction(
	gameId, observerId string, req data_models.GameActionRequest,
) (*data_models.GameActionResponse, error) {
	path := fmt.Sprintf("/api/game/%v/action", gameId)
	var out data_models.GameActionResponse
	err := c.postJson(path, observerId, req, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) resetGame(gameId, observerId string) (*data_models.GameStateResponse, error) {
	path := fmt.Sprintf("/api/game/%v/reset", gameId)
	var out data_models.GameStateResponse
	err := c.postJson(path, observerId, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) postJson(path, observerId string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	resp, err := c.http.Post(c.baseUrl+path+observerQuery(observerId), "application/json", reader)
	if err != nil {
		return err
	}
	return decodeResponse(resp, http.StatusOK, out)
}

func decodeResponse(resp *http.Response, wantStatus int, out any) error {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("unexpected status %v: %s", resp.StatusCode, body)
	}
	return json.Unmarshal(body, out)
}

func observerQuery(observerId string) string {
	if observerId == "" {
		return ""
	}
	return "?observerId=" + url.QueryEscape(observerId)
}
