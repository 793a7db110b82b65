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
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
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

	client := &http.Client{} // No timeout, LLM answers can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func dataField(body []byte) map[string]interface{} {
	var envelope map[string]interface{}
	json.Unmarshal(body, &envelope)
	if data, ok := envelope["data"].(map[string]interface{}); ok {
		return data
	}
	return nil
}

func main() {
	color.Cyan("🚀 Starting Knowledge Base API Smoke Test\n")

	// 1. Health Check
	color.Yellow("\n[SYSTEM] 1. Health Check")
	resp, body, err := sendRequest("GET", "/system/v1/health", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var healthResp map[string]interface{}
	json.Unmarshal(body, &healthResp)
	prettyPrint(healthResp)

	// 2. Ingest a Note
	color.Yellow("\n[ITEM] 2. Ingest Note")
	ingestReq := map[string]interface{}{
		"content":     "Pocket gophers are burrowing rodents. They dig extensive tunnel systems, store food in cheek pouches, and rarely come above ground.",
		"source_kind": "note",
	}
	resp, body, err = sendRequest("POST", "/item/v1", ingestReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var itemID string
	if data := dataField(body); data != nil {
		if id, ok := data["id"].(string); ok {
			itemID = id
			fmt.Printf("Ingested Item ID: %s (chunks: %v)\n", itemID, data["chunk_count"])
		}
	}

	// 3. Ingest a URL (optional, needs outbound network)
	if pageURL := os.Getenv("SMOKE_TEST_URL"); pageURL != "" {
		color.Yellow("\n[ITEM] 3. Ingest URL")
		urlReq := map[string]interface{}{
			"content":     pageURL,
			"source_kind": "url",
		}
		resp, body, err = sendRequest("POST", "/item/v1", urlReq)
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			prettyPrint(dataField(body))
		}
	} else {
		color.Yellow("\n[SKIP] 3. URL ingest (set SMOKE_TEST_URL to enable)")
	}

	// 4. List Items
	color.Yellow("\n[ITEM] 4. List Items (source_kind=note)")
	resp, body, err = sendRequest("GET", "/item/v1?source_kind=note", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var listResp map[string]interface{}
	json.Unmarshal(body, &listResp)
	if items, ok := listResp["data"].([]interface{}); ok {
		fmt.Printf("Items: %d\n", len(items))
	}

	// 5. Show the Ingested Item
	if itemID != "" {
		color.Yellow("\n[ITEM] 5. Show Item")
		resp, body, err = sendRequest("GET", "/item/v1/"+itemID, nil)
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			prettyPrint(dataField(body))
		}
	} else {
		color.Red("\n[SKIP] 5. Show skipped (no ID returned from ingest)")
	}

	// 6. Ask a Question
	color.Yellow("\n[QUERY] 6. Ask About the Ingested Note")
	queryReq := map[string]interface{}{
		"question":    "What do pocket gophers do with their tunnels?",
		"max_results": 5,
	}
	resp, body, err = sendRequest("POST", "/query/v1", queryReq)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		// Concise printing for the answer to avoid a huge source dump
		if data := dataField(body); data != nil {
			fmt.Printf("Answer: %s\n", data["answer"])
			if sources, ok := data["sources"].([]interface{}); ok {
				fmt.Printf("Sources: %d\n", len(sources))
			}
		}
	}

	// 7. Rebuild the Vector Index
	color.Yellow("\n[SYSTEM] 7. Reindex")
	resp, body, err = sendRequest("POST", "/system/v1/reindex", nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		prettyPrint(dataField(body))
	}

	// 8. Cleanup (Delete created item)
	if itemID != "" {
		color.Yellow("\n[ITEM] 8. Cleanup: Delete Ingested Item")
		resp, body, err = sendRequest("DELETE", "/item/v1/"+itemID, nil)
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			prettyPrint(dataField(body))
		}
	} else {
		color.Red("\n[SKIP] 8. Cleanup skipped (no ID returned from ingest)")
	}

	// 9. Final Health Check
	color.Yellow("\n[SYSTEM] 9. Final Health Check")
	resp, body, err = sendRequest("GET", "/system/v1/health", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(dataField(body))

	color.Cyan("\n✅ Smoke Test Sequence Complete")
}
