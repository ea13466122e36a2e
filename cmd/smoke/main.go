package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decode(body []byte) map[string]interface{} {
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	return out
}

func main() {
	color.Cyan("🚀 Starting Workspace API Smoke Walk\n")

	// 1. Open a session
	color.Yellow("\n1. Create Session")
	resp, body, err := sendRequest("POST", "/workspace/v1/session", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	sessionResp := decode(body)
	prettyPrint(sessionResp)

	data, _ := sessionResp["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		color.Red("No session token in response, aborting")
		os.Exit(1)
	}

	// 2. Nav manifest and banner
	color.Yellow("\n2. Get Nav Manifest")
	resp, body, _ = sendRequest("GET", "/nav/v1", "", nil)
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Yellow("\n3. Get Banner")
	resp, body, _ = sendRequest("GET", "/nav/v1/banner", "", nil)
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 4. Current view
	color.Yellow("\n4. Get Workspace View")
	resp, body, _ = sendRequest("GET", "/workspace/v1/view", token, nil)
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. Open a draft and fill it in
	color.Yellow("\n5. Open New Draft")
	resp, body, _ = sendRequest("POST", "/workspace/v1/new", token, map[string]interface{}{})
	color.Green("Status: %s", resp.Status)

	color.Yellow("\n6. Edit 'name' Field")
	resp, body, _ = sendRequest("PATCH", "/workspace/v1/field", token, map[string]interface{}{
		"name":  "name",
		"value": "smoke-test-record",
	})
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 7. Save it
	color.Yellow("\n7. Save Record")
	resp, body, _ = sendRequest("POST", "/workspace/v1/save", token, nil)
	color.Green("Status: %s", resp.Status)
	saved := decode(body)
	prettyPrint(saved)
	if resp.StatusCode != http.StatusOK {
		color.Red("Save failed, skipping delete")
		os.Exit(1)
	}

	// 8. Select the saved record back and delete it
	view, _ := saved["data"].(map[string]interface{})
	rows, _ := view["rows"].([]interface{})
	var savedID string
	for _, r := range rows {
		row, _ := r.(map[string]interface{})
		if label, _ := row["label"].(string); label == "smoke-test-record" {
			savedID, _ = row["id"].(string)
			break
		}
	}
	if savedID == "" {
		color.Red("Saved record not found in list")
		os.Exit(1)
	}

	color.Yellow("\n8. Select Saved Record %s", savedID)
	resp, body, _ = sendRequest("POST", "/workspace/v1/select", token, map[string]interface{}{"id": savedID})
	color.Green("Status: %s", resp.Status)

	color.Yellow("\n9. Delete Record (confirmed)")
	resp, body, _ = sendRequest("POST", "/workspace/v1/delete", token, map[string]interface{}{"confirm": true})
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✨ Smoke walk complete")
}
