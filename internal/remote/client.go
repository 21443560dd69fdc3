// Package remote exposes the challenge server's endpoints as the oracle
// interfaces, so the attacks run unchanged against a live server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blockbreak/internal/oracle"
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: status %d: %s", e.Code, strings.TrimSpace(e.Body))
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   string

	SessionID string
	Cipher    string
	ExpiresAt time.Time
}

// Dial opens a new challenge session. A nil hc uses http.DefaultClient.
func Dial(ctx context.Context, baseURL string, hc *http.Client) (*Client, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	c := &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: hc}
	var resp struct {
		Token     string    `json:"token"`
		SessionID string    `json:"session_id"`
		Cipher    string    `json:"cipher"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	c.Token, c.SessionID, c.Cipher, c.ExpiresAt = resp.Token, resp.SessionID, resp.Cipher, resp.ExpiresAt
	return c, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		res.Body.Close()
	}()
	if res.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{Code: res.StatusCode, Body: string(b)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

type dataMsg struct {
	Data []byte `json:"data"`
}

type ciphertextMsg struct {
	Ciphertext []byte `json:"ciphertext"`
}

// Encrypter returns the encryption oracle named in the URL, e.g.
// "ecb-suffix", "ecb-prefixed", "cbc-bitflip" or "coin-toss".
func (c *Client) Encrypter(ctx context.Context, name string) oracle.Encrypter {
	return oracle.EncrypterFunc(func(in []byte) ([]byte, error) {
		var out ciphertextMsg
		err := c.do(ctx, http.MethodPost, "/v1/oracles/"+name+"/encrypt", dataMsg{Data: in}, &out)
		return out.Ciphertext, err
	})
}

// Profile returns the profile oracle; its input is the email address.
func (c *Client) Profile(ctx context.Context) oracle.Encrypter {
	return oracle.EncrypterFunc(func(in []byte) ([]byte, error) {
		var out ciphertextMsg
		err := c.do(ctx, http.MethodPost, "/v1/oracles/profile/encrypt", map[string]string{"email": string(in)}, &out)
		return out.Ciphertext, err
	})
}

func (c *Client) BitflipDecrypter(ctx context.Context) oracle.Decrypter {
	return oracle.DecrypterFunc(func(ct []byte) ([]byte, error) {
		var out struct {
			Plaintext []byte `json:"plaintext"`
		}
		err := c.do(ctx, http.MethodPost, "/v1/oracles/cbc-bitflip/decrypt", dataMsg{Data: ct}, &out)
		return out.Plaintext, err
	})
}

type paddingMsg struct {
	IV         []byte `json:"iv"`
	Ciphertext []byte `json:"ciphertext"`
}

// PaddingToken fetches a fresh encryption of the padding challenge secret.
func (c *Client) PaddingToken(ctx context.Context) (iv, ct []byte, err error) {
	var out paddingMsg
	if err := c.do(ctx, http.MethodGet, "/v1/oracles/cbc-padding/token", nil, &out); err != nil {
		return nil, nil, err
	}
	return out.IV, out.Ciphertext, nil
}

func (c *Client) PaddingOracle(ctx context.Context) oracle.PaddingOracle {
	return oracle.PaddingOracleFunc(func(iv, ct []byte) (bool, error) {
		var out struct {
			Valid bool `json:"valid"`
		}
		err := c.do(ctx, http.MethodPost, "/v1/oracles/cbc-padding/validate", paddingMsg{IV: iv, Ciphertext: ct}, &out)
		return out.Valid, err
	})
}

func (c *Client) CTRCiphertexts(ctx context.Context) ([][]byte, error) {
	var out struct {
		Ciphertexts [][]byte `json:"ciphertexts"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/oracles/ctr-fixed-nonce/ciphertexts", nil, &out)
	return out.Ciphertexts, err
}

// SolveResult is the server's verdict on an answer.
type SolveResult struct {
	Challenge     string `json:"challenge"`
	Correct       bool   `json:"correct"`
	AlreadySolved bool   `json:"already_solved"`
	Queries       int64  `json:"queries"`
}

func (c *Client) Solve(ctx context.Context, name string, answer []byte) (SolveResult, error) {
	var out SolveResult
	err := c.do(ctx, http.MethodPost, "/v1/challenges/"+name+"/solve", map[string][]byte{"answer": answer}, &out)
	return out, err
}

type Me struct {
	ID        string    `json:"id"`
	Cipher    string    `json:"cipher"`
	Queries   int64     `json:"queries"`
	ExpiresAt time.Time `json:"expires_at"`
	Solved    []string  `json:"solved"`
}

func (c *Client) Me(ctx context.Context) (Me, error) {
	var out Me
	err := c.do(ctx, http.MethodGet, "/v1/me", nil, &out)
	return out, err
}

// Revoke ends the session; the token stops working.
func (c *Client) Revoke(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/v1/sessions", nil, nil)
}
