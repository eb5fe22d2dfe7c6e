package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fastnode/sporknet/src/service"
	"github.com/fastnode/sporknet/src/spork"
	"github.com/spf13/cobra"
)

var (
	serviceAddr   string
	clientTimeout = 10 * time.Second
)

// addServiceFlag adds the flag selecting the HTTP service of a node.
func addServiceFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&serviceAddr, "service", "s", _config.ServiceAddr, "IP:Port of the node's HTTP service")
}

func serviceURL(p string) string {
	addr := serviceAddr
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return strings.TrimSuffix(addr, "/") + p
}

// parseValue reads a spork value. "on" and "off" stand for the values that
// activate and deactivate a time-switched spork.
func parseValue(s string) (int64, error) {
	switch strings.ToLower(s) {
	case "on":
		return spork.On, nil
	case "off":
		return spork.Off, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// doRequest sends a request to the service and decodes the JSON response into
// out. Non-200 responses are errors carrying the body of the response.
func doRequest(method, p string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, serviceURL(p), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: clientTimeout}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	return json.Unmarshal(data, out)
}

func getSporks() ([]service.SporkInfo, error) {
	var res []service.SporkInfo
	err := doRequest(http.MethodGet, "/sporks", nil, &res)
	return res, err
}

func getSpork(name string) (service.SporkInfo, error) {
	var res service.SporkInfo
	err := doRequest(http.MethodGet, "/spork/"+name, nil, &res)
	return res, err
}

func postSpork(name string, value int64) (service.SporkInfo, error) {
	var res service.SporkInfo
	err := doRequest(http.MethodPost, "/spork", service.UpdateRequest{Name: name, Value: value}, &res)
	return res, err
}
