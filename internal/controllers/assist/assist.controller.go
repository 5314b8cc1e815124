package assistController

import (
	"context"
	"fmt"
	"strings"

	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	. "maidhub/internal/models"
	"maidhub/internal/repositories"
	"maidhub/internal/services"
	"maidhub/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	jobDescriptionSystemPrompt = "You write short, friendly cleaning job descriptions for a home cleaning " +
		"marketplace. Use plain sentences, no headings, at most 120 words."
	applicationSystemPrompt = "You write short, polite application messages from a cleaner to a client on a " +
		"home cleaning marketplace. Write in first person, at most 80 words, no greetings placeholders."
	MinPlacesInputLength = 2
)

type AssistController struct {
	jobRepo repositories.JobRepository
	text    services.TextGenerator
	places  services.PlacesProvider
	db      database.DB
	log     logger.Logger
}

type AssistControllerInterface interface {
	GenerateJobDescription(ctx context.Context, user *User, req *JobDescriptionRequest) (string, error)
	GenerateApplicationMessage(ctx context.Context, user *User, jobID uuid.UUID) (string, error)
	PlacePredictions(ctx context.Context, input string) ([]services.PlacePrediction, error)
}

type JobDescriptionRequest struct {
	Rooms     int      `json:"rooms"     validate:"gte=0,lte=100"`
	Bathrooms int      `json:"bathrooms" validate:"gte=0,lte=100"`
	AreaSize  *int     `json:"areaSize"  validate:"omitempty,gt=0"`
	Area      string   `json:"area"      validate:"max=200"`
	Extras    []string `json:"extras"    validate:"max=20,dive,max=100"`
}

func New(repos repositories.Repository, services services.Service, db database.DB) AssistControllerInterface {
	return &AssistController{
		jobRepo: repos.Job,
		text:    services.TextGeneration,
		places:  services.Places,
		db:      db,
		log:     logger.New("assistController"),
	}
}

func (ac *AssistController) GenerateJobDescription(
	ctx context.Context,
	user *User,
	req *JobDescriptionRequest,
) (string, error) {
	if !user.IsClient() {
		return "", ierr.Forbidden("Only clients can generate job descriptions")
	}

	if err := utils.ValidateRequest(req); err != nil {
		return "", err
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Rooms: %d\nBathrooms: %d\n", req.Rooms, req.Bathrooms)
	if req.AreaSize != nil {
		fmt.Fprintf(&prompt, "Size: %d m2\n", *req.AreaSize)
	}
	if area := utils.CleanText(req.Area); area != "" {
		fmt.Fprintf(&prompt, "Neighbourhood: %s\n", area)
	}

	extras := lo.Compact(lo.Map(req.Extras, func(e string, _ int) string { return utils.CleanText(e) }))
	if len(extras) > 0 {
		fmt.Fprintf(&prompt, "Extra tasks: %s\n", strings.Join(extras, ", "))
	}

	return ac.generate(ctx, jobDescriptionSystemPrompt, prompt.String())
}

// GenerateApplicationMessage drafts a message for the maid's application.
// The job is read without a lock.
func (ac *AssistController) GenerateApplicationMessage(
	ctx context.Context,
	user *User,
	jobID uuid.UUID,
) (string, error) {
	if !user.IsMaid() {
		return "", ierr.Forbidden("Only maids can generate application messages")
	}

	job, err := ac.jobRepo.GetByID(ctx, ac.db.SQL, jobID)
	if err != nil {
		return "", err
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Job title: %s\nJob description: %s\nArea: %s\n", job.Title, job.Description, job.Area)
	if len(job.WorkDates) > 0 {
		fmt.Fprintf(&prompt, "Dates: %s\n", strings.Join(job.WorkDates, ", "))
	}

	fmt.Fprintf(&prompt, "Cleaner name: %s\n", user.FullName())
	if user.YearsExperience != nil {
		fmt.Fprintf(&prompt, "Years of experience: %d\n", *user.YearsExperience)
	}
	if len(user.Services) > 0 {
		fmt.Fprintf(&prompt, "Services offered: %s\n", strings.Join(user.Services, ", "))
	}

	return ac.generate(ctx, applicationSystemPrompt, prompt.String())
}

func (ac *AssistController) PlacePredictions(ctx context.Context, input string) ([]services.PlacePrediction, error) {
	input = utils.CleanText(input)
	if utils.RuneLength(input) < MinPlacesInputLength {
		return []services.PlacePrediction{}, nil
	}

	return ac.places.Autocomplete(ctx, input)
}

func (ac *AssistController) generate(ctx context.Context, system, user string) (string, error) {
	text, err := ac.text.Generate(ctx, services.TextPrompt{System: system, User: user})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		ac.log.Function("generate").Warn("text generation returned empty output")
		return "", ierr.NewError("empty generation").
			WithHint("Text generation is currently unavailable").
			Mark(ierr.ErrUpstream)
	}

	return text, nil
}
