package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/Thebinary110/Free-L/internal/catalog"
	"github.com/Thebinary110/Free-L/internal/config"
	"github.com/Thebinary110/Free-L/internal/counsel"
	"github.com/Thebinary110/Free-L/internal/dataset"
	"github.com/Thebinary110/Free-L/internal/rank"
)

var stdin = bufio.NewScanner(os.Stdin)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
}

func main() {
	cfg := config.FromEnv()

	openCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dsn := cfg.DatasetDSN
	if cfg.DatasetDriver == "json" && dsn == "" {
		dsn = cfg.DataDir
	}
	src, err := dataset.OpenSource(openCtx, cfg.DatasetDriver, dsn)
	cancel()
	if err != nil {
		log.Fatalf("dataset source: %v", err)
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	curve := rank.DefaultCurve()
	if cfg.CurvePath != "" {
		if curve, err = rank.LoadCurve(cfg.CurvePath); err != nil {
			log.Fatalf("rank curve: %v", err)
		}
	}

	var opts []catalog.Option
	if cfg.MetadataCache != "" {
		opts = append(opts, catalog.WithCacheFile(cfg.MetadataCache))
	}
	svc := counsel.New(catalog.New(src, opts...), rank.NewEstimator(curve))

	ctx := context.Background()
	for {
		displayMenu()
		choice := readLine("")

		switch choice {
		case "1":
			listStates(ctx, svc)
		case "2":
			showMetadata(ctx, svc)
		case "3":
			estimateRank(svc)
		case "4":
			searchColleges(ctx, svc)
		case "5":
			recommendColleges(ctx, svc)
		case "6":
			showStatistics(ctx, svc)
		case "7":
			refreshMetadata(ctx, svc)
		case "8":
			color.Green("Thank you for using the NEET Counseling Explorer!")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func displayMenu() {
	color.Cyan("\n=== NEET Counseling Explorer ===")
	fmt.Println("1. List States")
	fmt.Println("2. State Metadata")
	fmt.Println("3. Estimate Rank from Score")
	fmt.Println("4. Search Eligible Colleges")
	fmt.Println("5. Recommend Colleges for a Score")
	fmt.Println("6. Closing-Rank Statistics")
	fmt.Println("7. Refresh Metadata Cache")
	fmt.Println("8. Exit")
	fmt.Print("\nEnter your choice (1-8): ")
}

func listStates(ctx context.Context, svc *counsel.Service) {
	states, err := svc.Regions(ctx)
	if err != nil {
		log.Printf("Error listing states: %v", err)
		return
	}

	color.Yellow("\nAvailable States")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "State"})
	for i, s := range states {
		table.Append([]string{strconv.Itoa(i + 1), s})
	}
	table.Render()
	fmt.Printf("Use %q to search across every state.\n", dataset.AllRegions)
}

func showMetadata(ctx context.Context, svc *counsel.Service) {
	state := readLine("Enter state name: ")
	meta, err := svc.Metadata(ctx, state)
	if err != nil {
		log.Printf("Error loading metadata: %v", err)
		return
	}

	color.Yellow("\nMetadata for %s", meta.Region)
	fmt.Printf("Name field: %s\n", meta.NameField)
	fmt.Printf("Categories: %s\n", strings.Join(meta.Categories, ", "))
	fmt.Printf("Quotas:     %s\n", strings.Join(meta.Quotas, ", "))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Round Column", "Label"})
	for _, r := range meta.Rounds {
		table.Append([]string{r.Column, r.Label})
	}
	table.Render()
}

func estimateRank(svc *counsel.Service) {
	score := readFloat("Enter NEET score (0-720): ")
	category := readLine("Enter category (blank for open): ")

	est := svc.EstimateRank(score, category)
	if est == rank.WorstRank {
		color.Red("Score is outside the valid 0-720 range.")
		return
	}
	color.Green("Estimated rank: %d", est)
}

func searchColleges(ctx context.Context, svc *counsel.Service) {
	req := counsel.QueryRequest{
		Region:   readLine("Enter state (or all): "),
		Round:    readLine("Enter round column (e.g. cr_2023_1): "),
		Category: readLine("Category filter (blank to skip): "),
		Quota:    readLine("Quota filter (blank to skip): "),
		Rank:     readInt("Your estimated rank (blank to skip): "),
		MinRank:  readInt("Minimum closing rank (blank to skip): "),
		MaxRank:  readInt("Maximum closing rank (blank to skip): "),
		Search:   readLine("College name contains (blank to skip): "),
		Page:     readInt("Page (blank for first): "),
		PageSize: readInt("Page size (blank for all): "),
	}

	res, err := svc.QueryEligible(ctx, req)
	if err != nil {
		log.Printf("Error querying colleges: %v", err)
		return
	}

	color.Yellow("\n%d colleges match", res.Total)
	renderColleges(req.Round, res.Colleges)
}

func recommendColleges(ctx context.Context, svc *counsel.Service) {
	req := counsel.RecommendRequest{
		Score:    readFloat("Enter NEET score (0-720): "),
		Category: readLine("Enter category (blank for open): "),
		Region:   readLine("Enter state (or all): "),
		Quota:    readLine("Quota filter (blank to skip): "),
		Round:    readLine("Enter round column (e.g. cr_2023_1): "),
	}

	rec, err := svc.Recommend(ctx, req)
	if err != nil {
		log.Printf("Error recommending colleges: %v", err)
		return
	}

	color.Green("Estimated rank: %d", rec.EstimatedRank)
	color.Yellow("\nTop %d of %d eligible colleges", len(rec.Colleges), rec.Total)
	renderColleges(req.Round, rec.Colleges)
}

func showStatistics(ctx context.Context, svc *counsel.Service) {
	req := counsel.QueryRequest{
		Region:   readLine("Enter state (or all): "),
		Round:    readLine("Enter round column (e.g. cr_2023_1): "),
		Category: readLine("Category filter (blank to skip): "),
		Quota:    readLine("Quota filter (blank to skip): "),
	}

	sum, err := svc.Statistics(ctx, req)
	if err != nil {
		log.Printf("Error computing statistics: %v", err)
		return
	}

	color.Yellow("\nClosing-Rank Statistics")
	fmt.Printf("Colleges with data: %d\n", sum.Count)
	if sum.MeanCutoff != nil {
		fmt.Printf("Mean closing rank:  %.1f\n", *sum.MeanCutoff)
	}
	if sum.MinCutoff != nil {
		fmt.Printf("Best closing rank:  %d\n", *sum.MinCutoff)
	}

	if len(sum.Distribution) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Closing Rank", "Colleges"})
		for _, b := range sum.Distribution {
			table.Append([]string{strconv.Itoa(b.ClosingRank), strconv.Itoa(b.Count)})
		}
		table.Render()
	}

	color.Yellow("\nMost Competitive Colleges")
	renderColleges(req.Round, sum.Top)
}

func refreshMetadata(ctx context.Context, svc *counsel.Service) {
	if err := svc.Refresh(ctx); err != nil {
		log.Printf("Error refreshing metadata: %v", err)
		return
	}
	color.Green("Metadata cache refreshed.")
}

func renderColleges(round string, colleges []dataset.Record) {
	rid, _ := dataset.ParseRound(round)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "College", "State", "Quota", "Category", "Closing Rank"})
	for i, c := range colleges {
		cutoff := "-"
		if v, ok := c.Cutoff(rid); ok {
			cutoff = strconv.Itoa(v)
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			c.CollegeName,
			c.Region,
			c.Quota,
			c.Category,
			cutoff,
		})
	}
	table.Render()
}

func readLine(label string) string {
	if label != "" {
		fmt.Print(label)
	}
	if stdin.Scan() {
		return strings.TrimSpace(stdin.Text())
	}
	return ""
}

func readInt(label string) int {
	s := readLine(label)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		color.Red("Not a number, ignoring: %s", s)
		return 0
	}
	return v
}

func readFloat(label string) float64 {
	s := readLine(label)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		color.Red("Not a number, ignoring: %s", s)
		return 0
	}
	return v
}
