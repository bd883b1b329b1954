package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// itemResponse mirrors the scraper API's item record.
type itemResponse struct {
	SourceURL  string  `json:"source_url"`
	ItemID     *string `json:"item_id"`
	Title      *string `json:"title"`
	PriceText  *string `json:"price_text_jpy"`
	PriceJPY   *int    `json:"price_jpy"`
	Currency   *string `json:"currency"`
	FirstImage *string `json:"first_image"`
	Seller     *string `json:"seller"`

	// Error is set on batch failure slots and API error envelopes.
	Error json.RawMessage `json:"error"`
}

// errorEnvelope mirrors the API's structured error body.
type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("MERCARI_SCRAPER_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:3000"
	}

	s := server.NewMCPServer(
		"mercari-scraper",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	scrapeItemTool := mcp.NewTool("scrape_item",
		mcp.WithDescription("Scrape a single Mercari item page and return its title, price (JPY), first photo URL and seller name. Uses a headless browser, so JavaScript-rendered prices are captured."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Mercari item page URL (https://jp.mercari.com/item/m...)"),
		),
	)
	s.AddTool(scrapeItemTool, handleScrapeItem(apiURL))

	scrapeItemsTool := mcp.NewTool("scrape_items",
		mcp.WithDescription("Scrape multiple Mercari item pages in one call. Results come back in input order; failed URLs get an error entry instead of failing the whole batch."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of Mercari item page URLs"),
		),
	)
	s.AddTool(scrapeItemsTool, handleScrapeItems(apiURL))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleScrapeItem(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		itemURL, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		endpoint := apiURL + "/api/v1/scrape?url=" + url.QueryEscape(itemURL)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		if resp.StatusCode != http.StatusOK {
			var env errorEnvelope
			if jsonErr := json.Unmarshal(respBody, &env); jsonErr == nil && env.Error != nil {
				return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", env.Error.Code, env.Error.Message)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("scrape failed with HTTP %d", resp.StatusCode)), nil
		}

		var item itemResponse
		if err := json.Unmarshal(respBody, &item); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		return mcp.NewToolResultText(formatItem(&item)), nil
	}
}

func handleScrapeItems(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		body, err := json.Marshal(map[string]any{"urls": urls})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/scrape", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		if resp.StatusCode != http.StatusOK {
			var env errorEnvelope
			if jsonErr := json.Unmarshal(respBody, &env); jsonErr == nil && env.Error != nil {
				return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", env.Error.Code, env.Error.Message)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("batch scrape failed with HTTP %d", resp.StatusCode)), nil
		}

		var items []itemResponse
		if err := json.Unmarshal(respBody, &items); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		var sb strings.Builder
		for i, item := range items {
			sb.WriteString(fmt.Sprintf("--- [%d/%d] %s ---\n", i+1, len(items), item.SourceURL))
			if len(item.Error) > 0 {
				sb.WriteString("FAILED: " + errorText(item.Error) + "\n\n")
				continue
			}
			sb.WriteString(formatItem(&item))
			sb.WriteString("\n\n")
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// formatItem renders one item record as readable key/value lines. Missing
// fields are shown as "n/a" rather than omitted so LLM clients see the full
// schema every time.
func formatItem(item *itemResponse) string {
	var sb strings.Builder
	sb.WriteString("URL: " + item.SourceURL + "\n")
	sb.WriteString("Item ID: " + orNA(item.ItemID) + "\n")
	sb.WriteString("Title: " + orNA(item.Title) + "\n")
	sb.WriteString("Price: " + orNA(item.PriceText))
	if item.Currency != nil {
		sb.WriteString(" (" + *item.Currency + ")")
	}
	sb.WriteString("\n")
	sb.WriteString("Image: " + orNA(item.FirstImage) + "\n")
	sb.WriteString("Seller: " + orNA(item.Seller))
	return sb.String()
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "n/a"
	}
	return *s
}

// errorText extracts a message from either a plain string error (batch
// failure slots) or a structured {code,message} object.
func errorText(raw json.RawMessage) string {
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var detail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
		return fmt.Sprintf("[%s] %s", detail.Code, detail.Message)
	}
	return string(raw)
}
