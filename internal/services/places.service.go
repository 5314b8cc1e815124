package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"maidhub/config"
	"maidhub/internal/constants"
	"maidhub/internal/database"
	ierr "maidhub/internal/errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/hashicorp/go-retryablehttp"
)

type PlacePrediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

type PlacesProvider interface {
	Autocomplete(ctx context.Context, input string) ([]PlacePrediction, error)
}

// PlacesService queries a place autocomplete endpoint restricted to one country.
// Predictions are cached per country and normalized input.
type PlacesService struct {
	client   *retryablehttp.Client
	cache    database.CacheClient
	endpoint string
	apiKey   string
	country  string
	log      logger.Logger
}

type placesAutocompleteResponse struct {
	Status      string `json:"status"`
	Predictions []struct {
		Description string `json:"description"`
		PlaceID     string `json:"place_id"`
	} `json:"predictions"`
}

func NewPlacesService(config config.Config, cache database.CacheClient) *PlacesService {
	return &PlacesService{
		client:   newUpstreamClient(),
		cache:    cache,
		endpoint: config.PlacesAPIURL,
		apiKey:   config.PlacesAPIKey,
		country:  strings.ToLower(config.PlacesCountry),
		log:      logger.New("PlacesService"),
	}
}

func (s *PlacesService) Autocomplete(ctx context.Context, input string) ([]PlacePrediction, error) {
	log := s.log.Function("Autocomplete")
	const hint = "Address suggestions are currently unavailable"

	input = strings.TrimSpace(input)
	if input == "" {
		return []PlacePrediction{}, nil
	}

	cacheKey := s.country + ":" + strings.ToLower(input)
	var cached []PlacePrediction
	found, err := database.NewCacheBuilder(s.cache, cacheKey).
		WithContext(ctx).
		WithHash(constants.PlacesCachePrefix).
		Get(&cached)
	if err != nil && err != database.ErrCacheUnavailable {
		log.Warn("failed to read cached predictions", "error", err)
	}
	if found {
		return cached, nil
	}

	if s.endpoint == "" {
		return nil, ierr.NewError("places not configured").WithHint(hint).Mark(ierr.ErrUpstream)
	}

	query := url.Values{}
	query.Set("input", input)
	query.Set("key", s.apiKey)
	if s.country != "" {
		query.Set("components", "country:"+s.country)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, log.Err("failed to create request", err)
	}

	var response placesAutocompleteResponse
	if err := doJSON(s.client, req, &response, hint, log); err != nil {
		return nil, err
	}

	switch response.Status {
	case "OK", "ZERO_RESULTS", "":
	default:
		return nil, upstreamErr(log.Error("places returned error status", "status", response.Status), hint)
	}

	predictions := make([]PlacePrediction, 0, len(response.Predictions))
	for _, p := range response.Predictions {
		predictions = append(predictions, PlacePrediction{Description: p.Description, PlaceID: p.PlaceID})
	}

	err = database.NewCacheBuilder(s.cache, cacheKey).
		WithContext(ctx).
		WithHash(constants.PlacesCachePrefix).
		WithStruct(predictions).
		WithTTL(constants.PlacesCacheExpiry).
		Set()
	if err != nil && err != database.ErrCacheUnavailable {
		log.Warn("failed to cache predictions", "error", err)
	}

	return predictions, nil
}
