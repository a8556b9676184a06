// jobhubctl drives the job marketplace API from the terminal. It reuses the
// same stores the app is built on, so everything the UI can do works here.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/onboarding"
	"github.com/jobhub/jobhub/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	baseURL := os.Getenv("JOBHUB_API")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	storage, err := store.DefaultFileStorage()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve config dir")
	}

	api := client.New(baseURL)
	auth := store.NewAuthStore(api, storage)
	jobs := store.NewJobsStore(api)
	applications := store.NewApplicationsStore(api)
	profile := store.NewProfileStore(api)
	insights := store.NewInsightsStore(api)
	connections := store.NewConnectionsStore(api)

	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(os.Args[2:])
		must(auth.Login(ctx, *email, *password))
		fmt.Printf("signed in as %s\n", auth.User().Email)

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		role := fs.String("role", "engineer", "account role (founder or engineer)")
		fs.Parse(os.Args[2:])
		must(auth.Signup(ctx, *name, *email, *password, *role))
		fmt.Printf("account created for %s\n", auth.User().Email)

	case "logout":
		must(auth.Logout(ctx))
		fmt.Println("signed out")

	case "jobs":
		fs := flag.NewFlagSet("jobs", flag.ExitOnError)
		query := fs.String("query", "", "free-text search")
		skills := fs.String("skills", "", "comma-separated skills")
		level := fs.String("level", "", "experience level")
		location := fs.String("location", "", "location filter")
		funding := fs.String("funding", "", "funding stage")
		remote := fs.Bool("remote", false, "remote only")
		page := fs.Int("page", 1, "page")
		limit := fs.Int("limit", 20, "page size")
		fs.Parse(os.Args[2:])

		filters := store.JobFilters{
			Query:           *query,
			ExperienceLevel: *level,
			Location:        *location,
			FundingStage:    *funding,
			Page:            *page,
			Limit:           *limit,
		}
		if *skills != "" {
			filters.Skills = strings.Split(*skills, ",")
		}
		if *remote {
			filters.Remote = remote
		}
		must(jobs.Search(ctx, filters))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "JOB ID\tTITLE\tCOMPANY\tLOCATION")
		for _, job := range jobs.Jobs() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", job.JobID, job.Title, job.Company, job.Location)
		}
		w.Flush()

	case "recommend":
		fs := flag.NewFlagSet("recommend", flag.ExitOnError)
		sortBy := fs.String("sort", "best_match", "best_match or newest")
		fs.Parse(os.Args[2:])
		must(jobs.FetchRecommended(ctx, *sortBy))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "JOB ID\tSCORE\tTITLE\tWHY")
		for _, job := range jobs.Recommended() {
			fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\n", job.JobID, job.MatchScore, job.Title, job.WhyRecommended)
		}
		w.Flush()

	case "apply":
		fs := flag.NewFlagSet("apply", flag.ExitOnError)
		jobID := fs.String("job", "", "job id")
		notes := fs.String("notes", "", "optional notes")
		fs.Parse(os.Args[2:])

		var notesPtr *string
		if *notes != "" {
			notesPtr = notes
		}
		must(applications.Create(ctx, *jobID, notesPtr))
		fmt.Printf("applied to %s\n", *jobID)

	case "applications":
		fs := flag.NewFlagSet("applications", flag.ExitOnError)
		status := fs.String("status", "", "filter by status")
		fs.Parse(os.Args[2:])
		must(applications.Fetch(ctx, *status))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "APP ID\tSTATUS\tJOB\tCOMPANY\tAPPLIED")
		for _, app := range applications.Applications() {
			title, company := "", ""
			if app.JobTitle != nil {
				title = *app.JobTitle
			}
			if app.Company != nil {
				company = *app.Company
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				app.ApplicationID, app.Status, title, company, app.AppliedAt.Format("2006-01-02"))
		}
		w.Flush()

	case "withdraw":
		fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
		appID := fs.String("id", "", "application id")
		fs.Parse(os.Args[2:])
		must(applications.Withdraw(ctx, *appID))
		fmt.Printf("withdrew %s\n", *appID)

	case "profile":
		must(profile.Fetch(ctx))
		p := profile.Profile()
		if p == nil {
			fmt.Println("no profile yet, run: jobhubctl onboard")
			return
		}
		fmt.Printf("name: %s\nemail: %s\nskills: %s\nonboarded: %t\n",
			p.Name, p.Email, strings.Join(p.Skills, ", "), p.OnboardingCompleted)

	case "onboard":
		fs := flag.NewFlagSet("onboard", flag.ExitOnError)
		resume := fs.String("resume", "", "path to PDF or txt resume; empty skips upload")
		skills := fs.String("skills", "", "comma-separated skills")
		level := fs.String("level", "", "experience level: entry, mid, senior")
		fs.Parse(os.Args[2:])
		runOnboarding(ctx, profile, *resume, *skills, *level)

	case "insights":
		fs := flag.NewFlagSet("insights", flag.ExitOnError)
		rng := fs.String("range", "week", "day, week, month or year")
		fs.Parse(os.Args[2:])
		must(insights.FetchAll(ctx, *rng))

		summary := insights.Summary()
		fmt.Printf("applications: %d (this week %d)\n", summary.TotalApplications, summary.ThisWeek)
		fmt.Printf("response %.1f%%  interview %.1f%%  offer %.1f%%\n",
			summary.ResponseRate, summary.InterviewRate, summary.OfferRate)
		for _, stage := range insights.Funnel().Stages {
			fmt.Printf("  %-10s %4d  %5.1f%%\n", stage.Name, stage.Count, stage.Percentage)
		}

	case "connections":
		fs := flag.NewFlagSet("connections", flag.ExitOnError)
		status := fs.String("status", "", "filter by status")
		fs.Parse(os.Args[2:])
		must(connections.Fetch(ctx, *status, 1, 20))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CONN ID\tSTATUS\tFOUNDER\tENGINEER\tMESSAGES")
		for _, conn := range connections.Connections() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				conn.ConnectionID, conn.Status, conn.FounderName, conn.EngineerName, len(conn.Messages))
		}
		w.Flush()

	default:
		usage()
		os.Exit(2)
	}
}

// runOnboarding walks the upload -> parse -> profile -> complete flow
// non-interactively.
func runOnboarding(ctx context.Context, profile *store.ProfileStore, resumePath, skills, level string) {
	flow := onboarding.NewFlow(profile, time.Second)
	defer flow.Close()

	if resumePath == "" {
		flow.SkipUpload()
	} else {
		f, err := os.Open(resumePath)
		if err != nil {
			log.Fatal().Err(err).Msg("open resume")
		}
		defer f.Close()

		fmt.Println("uploading resume...")
		if res := flow.Upload(ctx, resumePath, f); !res.Success {
			log.Fatal().Str("error", res.Error).Msg("upload failed")
		}

		fmt.Println("waiting for parse...")
		for flow.Step() == onboarding.StepParsing {
			time.Sleep(200 * time.Millisecond)
		}
		if msg := flow.LastError(); msg != "" {
			fmt.Printf("parse failed (%s), continuing with an empty profile\n", msg)
		}
	}

	for _, skill := range strings.Split(skills, ",") {
		flow.AddSkill(skill)
	}
	if level != "" {
		flow.SetField(func(form *onboarding.Form) { form.ExperienceLevel = level })
	}

	must(flow.Submit(ctx))
	fmt.Println("onboarding complete")
}

func must(res store.Result) {
	if !res.Success {
		fmt.Fprintln(os.Stderr, "error:", res.Error)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: jobhubctl <command> [flags]

commands:
  login, signup, logout
  jobs, recommend, apply, applications, withdraw
  profile, onboard
  insights, connections

set JOBHUB_API to point at a non-default server.`)
}
