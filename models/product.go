// Package models defines data structures shared by the ordering client.
package models

import "time"

// Product is one purchasable brand scraped from the order listing.
type Product struct {
	ItemID      string `csv:"item_id" json:"item_id"`
	FamilyID    string `csv:"family_id" json:"family_id"`
	DisplayName string `csv:"display_name" json:"display_name"`
	Available   bool   `csv:"available" json:"available"`
}

// ScrapeResult holds the outcome of one inventory fetch.
type ScrapeResult struct {
	Products  []Product
	Warnings  []string
	FetchedAt time.Time
}

// RunSummary describes a complete CLI run for the final report.
type RunSummary struct {
	StartTime    time.Time
	EndTime      time.Time
	Action       string
	Target       string
	Found        bool
	Available    bool
	Ordered      bool
	ProductCount int
	Warnings     []string
}
