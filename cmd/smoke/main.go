package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:8080/api"

// apiKey is optional; leave API_KEY unset when the server runs without the guard.
var apiKey = os.Getenv("API_KEY")

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
	if apiKey != "" {
		req.Header.Set("X-Api-Key", apiKey)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting CogniHub API Smoke Test\n")

	// 1. Health Check
	color.Yellow("\n1. Health Check")
	resp, body, err := sendRequest("GET", "/health", nil)
	if err != nil {
		color.Red("Failed: %v (is the server running?)", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 2. Service Status (DB counts + Ollama reachability)
	color.Yellow("\n2. Get Service Status")
	resp, body, err = sendRequest("GET", "/status", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var statusResp map[string]interface{}
	json.Unmarshal(body, &statusResp)
	prettyPrint(statusResp)

	// 3. Ingest a Document
	color.Yellow("\n3. Create Document (smoke-test.md)")
	docReq := map[string]interface{}{
		"filename": "smoke-test.md",
		"title":    "Smoke Test Notes",
		"group":    "smoke",
		"sections": []map[string]interface{}{
			{"label": "Intro", "text": "CogniHub is a local-first research assistant. It stores documents, chunks them, and embeds each chunk for similarity search."},
			{"label": "Retrieval", "text": "Retrieval blends document, web, and kiwix providers. Scores are weighted cosine similarity; MMR reduces redundancy in the final list."},
		},
	}
	resp, body, err = sendRequest("POST", "/docs", docReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var createDocResp map[string]interface{}
	json.Unmarshal(body, &createDocResp)
	prettyPrint(createDocResp)

	var docID float64
	if data, ok := createDocResp["data"].(map[string]interface{}); ok {
		if id, ok := data["id"].(float64); ok {
			docID = id
		}
	}
	if docID == 0 {
		color.Red("No document id returned; aborting")
		os.Exit(1)
	}

	// Embedding runs on the ingest consumer; give it a moment.
	fmt.Println("Waiting 3s for background embedding...")
	time.Sleep(3 * time.Second)

	// 4. List Documents (filtered by group)
	color.Yellow("\n4. List Documents (group=smoke)")
	resp, body, err = sendRequest("GET", "/docs?group=smoke", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var listDocsResp map[string]interface{}
	json.Unmarshal(body, &listDocsResp)
	prettyPrint(listDocsResp)

	// 5. Inspect Chunks
	color.Yellow("\n5. Get Document Chunks")
	resp, body, err = sendRequest("GET", fmt.Sprintf("/docs/%.0f/chunks", docID), nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var chunksResp map[string]interface{}
	json.Unmarshal(body, &chunksResp)
	var chunkID float64
	if data, ok := chunksResp["data"].([]interface{}); ok {
		fmt.Printf("Chunks: %d\n", len(data))
		if len(data) > 0 {
			if first, ok := data[0].(map[string]interface{}); ok {
				if id, ok := first["id"].(float64); ok {
					chunkID = id
				}
			}
		}
	}

	// 6. Neighbor Expansion
	if chunkID > 0 {
		color.Yellow("\n6. Get Chunk Neighbors (span=1)")
		resp, body, err = sendRequest("GET", fmt.Sprintf("/chunks/%.0f/neighbors?span=1", chunkID), nil)
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			var neighborsResp map[string]interface{}
			json.Unmarshal(body, &neighborsResp)
			prettyPrint(neighborsResp)
		}
	} else {
		color.Red("\n6. Skipping neighbors: no chunk id (embedding may still be running)")
	}

	// 7. Retrieve
	color.Yellow("\n7. Retrieve ('how does retrieval score results?')")
	retrieveReq := map[string]interface{}{
		"query": "how does retrieval score results?",
		"top_k": 4,
		"group": "smoke",
	}
	resp, body, err = sendRequest("POST", "/retrieve", retrieveReq)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var retrieveResp map[string]interface{}
		json.Unmarshal(body, &retrieveResp)
		// Concise printing to avoid a huge chunk-text dump
		if data, ok := retrieveResp["data"].(map[string]interface{}); ok {
			if results, ok := data["results"].([]interface{}); ok {
				fmt.Printf("Results: %d\n", len(results))
				for _, r := range results {
					if hit, ok := r.(map[string]interface{}); ok {
						fmt.Printf("  [%.4f] %s %v\n", hit["score"], hit["source"], hit["ref_id"])
					}
				}
			}
		} else {
			prettyPrint(retrieveResp)
		}
	}

	// 8. Create Chat + Append Messages
	color.Yellow("\n8. Create Chat")
	chatReq := map[string]interface{}{
		"title": "Smoke Test Chat",
		"tags":  []string{"smoke"},
	}
	resp, body, err = sendRequest("POST", "/chats", chatReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var createChatResp map[string]interface{}
	json.Unmarshal(body, &createChatResp)
	var chatID string
	if data, ok := createChatResp["data"].(map[string]interface{}); ok {
		if id, ok := data["id"].(string); ok {
			chatID = id
			fmt.Printf("Created Chat ID: %s\n", chatID)
		}
	}

	if chatID != "" {
		color.Yellow("\n8a. Append Messages")
		for _, msg := range []map[string]interface{}{
			{"role": "user", "content": "What is MMR?"},
			{"role": "assistant", "content": "Maximal Marginal Relevance balances relevance against redundancy when picking results."},
		} {
			resp, _, err = sendRequest("POST", "/chats/"+chatID+"/messages", msg)
			if err != nil {
				color.Red("Failed: %v", err)
			} else {
				color.Green("Status: %s", resp.Status)
			}
		}

		// 9. Export as Markdown (raw body, not the JSON envelope)
		color.Yellow("\n9. Export Chat (markdown)")
		resp, body, err = sendRequest("GET", "/chats/"+chatID+"/export?format=markdown", nil)
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			fmt.Println(string(body))
		}

		// 10. Fork
		color.Yellow("\n10. Fork Chat")
		resp, body, err = sendRequest("POST", "/chats/"+chatID+"/fork", map[string]interface{}{})
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			var forkResp map[string]interface{}
			json.Unmarshal(body, &forkResp)
			prettyPrint(forkResp)
		}
	}

	// 11. Start Research Run
	color.Yellow("\n11. Start Research Run")
	researchReq := map[string]interface{}{
		"question": "What makes retrieval results diverse?",
		"options":  map[string]interface{}{"top_k": 4, "group": "smoke"},
	}
	resp, body, err = sendRequest("POST", "/research", researchReq)
	var runID string
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var startResp map[string]interface{}
		json.Unmarshal(body, &startResp)
		if data, ok := startResp["data"].(map[string]interface{}); ok {
			if id, ok := data["id"].(string); ok {
				runID = id
				fmt.Printf("Run ID: %s (status=%v)\n", runID, data["status"])
			}
		}
	}

	if runID != "" {
		fmt.Println("Waiting 5s for the run to finish...")
		time.Sleep(5 * time.Second)

		color.Yellow("\n11a. Get Research Run")
		resp, body, err = sendRequest("GET", "/research/"+runID, nil)
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			var runResp map[string]interface{}
			json.Unmarshal(body, &runResp)
			prettyPrint(runResp)
		}
	}

	// 12. Cleanup
	color.Yellow("\n12. Cleanup")
	if chatID != "" {
		resp, _, err = sendRequest("DELETE", "/chats/"+chatID, nil)
		if err != nil {
			color.Red("Delete chat failed: %v", err)
		} else {
			color.Green("Delete chat: %s", resp.Status)
		}
	}
	if runID != "" {
		resp, _, err = sendRequest("DELETE", "/research/"+runID, nil)
		if err != nil {
			color.Red("Delete research run failed: %v", err)
		} else {
			color.Green("Delete research run: %s", resp.Status)
		}
	}
	resp, _, err = sendRequest("DELETE", fmt.Sprintf("/docs/%.0f", docID), nil)
	if err != nil {
		color.Red("Delete document failed: %v", err)
	} else {
		color.Green("Delete document: %s", resp.Status)
	}

	color.Cyan("\n✅ Smoke Test Complete")
}
