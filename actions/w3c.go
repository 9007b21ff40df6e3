package actions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/golang/glog"
)

const jsonType = "application/json"

// W3C sends gestures through the W3C "Perform Actions" endpoint of a
// WebDriver server.
type W3C struct {
	executor  string
	sessionID func() string
	client    *http.Client
}

// NewW3C returns a performer for the session whose ID is reported by
// sessionID on the WebDriver server at executor, e.g.
// "http://localhost:4444/wd/hub". A nil client means http.DefaultClient.
func NewW3C(executor string, sessionID func() string, client *http.Client) *W3C {
	if client == nil {
		client = http.DefaultClient
	}
	return &W3C{
		executor:  strings.TrimSuffix(executor, "/"),
		sessionID: sessionID,
		client:    client,
	}
}

func (w *W3C) url() string {
	return fmt.Sprintf("%s/session/%s/actions", w.executor, w.sessionID())
}

// Perform posts the encoded ticks. Keys and buttons left pressed stay
// pressed, and the pointer stays where the ticks left it, until Release.
func (w *W3C) Perform(actions []Action) error {
	data, err := json.Marshal(Encode(actions))
	if err != nil {
		return fmt.Errorf("encoding actions: %w", err)
	}
	return w.do(http.MethodPost, data)
}

// Release releases every pressed key and button and resets the input state
// held by the server.
func (w *W3C) Release() error {
	return w.do(http.MethodDelete, nil)
}

func (w *W3C) do(method string, data []byte) error {
	url := w.url()
	glog.V(2).Infof("-> %s %s\n%s", method, url, data)
	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Add("Accept", jsonType)
	if data != nil {
		req.Header.Add("Content-Type", jsonType)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	buf, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: reading reply: %w", method, url, err)
	}
	glog.V(2).Infof("<- %s\n%s", resp.Status, buf)
	if resp.StatusCode >= 400 {
		return replyError(resp.Status, buf)
	}
	return nil
}

func replyError(status string, buf []byte) error {
	reply := new(struct {
		Value struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		} `json:"value"`
	})
	if err := json.Unmarshal(buf, reply); err != nil || reply.Value.Error == "" {
		return fmt.Errorf("bad server reply status: %s", status)
	}
	if reply.Value.Message == "" {
		return fmt.Errorf("%s", reply.Value.Error)
	}
	return fmt.Errorf("%s: %s", reply.Value.Error, reply.Value.Message)
}
