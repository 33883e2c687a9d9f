/* models.go
 * This file contains the models used by the external package when fetching data from the VexDB api
 */

package external

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"vex-shell/api/shared"
)

// MatchQuery selects matches from get_matches. Empty fields are not sent
type MatchQuery struct {
	SKU      string
	Team     string
	Division string
	Round    int
}

func (q MatchQuery) values() url.Values {
	v := url.Values{}
	if q.SKU != "" {
		v.Set("sku", q.SKU)
	}
	if q.Team != "" {
		v.Set("team", strings.ToUpper(q.Team))
	}
	if q.Division != "" {
		v.Set("division", q.Division)
	}
	if q.Round != 0 {
		v.Set("round", strconv.Itoa(q.Round))
	}
	return v
}

// Key returns a stable cache key for the query
func (q MatchQuery) Key() string {
	return "matches?" + q.values().Encode()
}

// TeamQuery selects teams from get_teams. Empty fields are not sent
type TeamQuery struct {
	SKU    string
	Team   string
	Region string
}

func (q TeamQuery) values() url.Values {
	v := url.Values{}
	if q.SKU != "" {
		v.Set("sku", q.SKU)
	}
	if q.Team != "" {
		v.Set("team", strings.ToUpper(q.Team))
	}
	if q.Region != "" {
		v.Set("region", q.Region)
	}
	return v
}

// Key returns a stable cache key for the query
func (q TeamQuery) Key() string {
	return "teams?" + q.values().Encode()
}

// RankingQuery selects rankings from get_rankings. Empty fields are not sent
type RankingQuery struct {
	SKU      string
	Team     string
	Division string
}

func (q RankingQuery) values() url.Values {
	v := url.Values{}
	if q.SKU != "" {
		v.Set("sku", q.SKU)
	}
	if q.Team != "" {
		v.Set("team", strings.ToUpper(q.Team))
	}
	if q.Division != "" {
		v.Set("division", q.Division)
	}
	return v
}

// Key returns a stable cache key for the query
func (q RankingQuery) Key() string {
	return "rankings?" + q.values().Encode()
}

// envelope is the wrapper every VexDB response is sent in
type envelope struct {
	Status    int             `json:"status"`
	Size      int             `json:"size"`
	Result    json.RawMessage `json:"result"`
	ErrorText string          `json:"error_text"`
}

type matchRecord struct {
	SKU       string `json:"sku"`
	Division  string `json:"division"`
	Round     int    `json:"round"`
	Instance  int    `json:"instance"`
	MatchNum  int    `json:"matchnum"`
	Field     string `json:"field"`
	Red1      string `json:"red1"`
	Red2      string `json:"red2"`
	Red3      string `json:"red3"`
	RedSit    string `json:"redsit"`
	Blue1     string `json:"blue1"`
	Blue2     string `json:"blue2"`
	Blue3     string `json:"blue3"`
	BlueSit   string `json:"bluesit"`
	RedScore  int    `json:"redscore"`
	BlueScore int    `json:"bluescore"`
	Scored    int    `json:"scored"`
	Scheduled string `json:"scheduled"`
}

func (r matchRecord) toMatch() shared.Match {
	return shared.Match{
		SKU:       r.SKU,
		Division:  r.Division,
		Round:     r.Round,
		Instance:  r.Instance,
		Number:    r.MatchNum,
		Red1:      r.Red1,
		Red2:      r.Red2,
		Blue1:     r.Blue1,
		Blue2:     r.Blue2,
		RedScore:  r.RedScore,
		BlueScore: r.BlueScore,
		Scored:    r.Scored == 1,
	}
}

type teamRecord struct {
	Number       string `json:"number"`
	Program      string `json:"program"`
	TeamName     string `json:"team_name"`
	RobotName    string `json:"robot_name"`
	Organisation string `json:"organisation"`
	City         string `json:"city"`
	Region       string `json:"region"`
	Country      string `json:"country"`
	Grade        string `json:"grade"`
}

func (r teamRecord) toTeam() shared.Team {
	return shared.Team{
		Number:       strings.ToUpper(r.Number),
		Name:         r.TeamName,
		Organization: r.Organisation,
		City:         r.City,
		Region:       r.Region,
		Grade:        r.Grade,
	}
}

type rankingRecord struct {
	SKU      string  `json:"sku"`
	Division string  `json:"division"`
	Team     string  `json:"team"`
	Rank     int     `json:"rank"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Ties     int     `json:"ties"`
	WP       int     `json:"wp"`
	AP       int     `json:"ap"`
	SP       int     `json:"sp"`
	TRSP     int     `json:"trsp"`
	MaxScore int     `json:"max_score"`
	OPR      float64 `json:"opr"`
	DPR      float64 `json:"dpr"`
	CCWM     float64 `json:"ccwm"`
}

func (r rankingRecord) toRanking() shared.Ranking {
	return shared.Ranking{
		SKU:      r.SKU,
		Division: r.Division,
		Team:     strings.ToUpper(r.Team),
		Rank:     r.Rank,
		Wins:     r.Wins,
		Losses:   r.Losses,
		Ties:     r.Ties,
		WP:       r.WP,
		AP:       r.AP,
		SP:       r.SP,
		MaxScore: r.MaxScore,
		OPR:      r.OPR,
	}
}

// StatusError is returned when the api answers with a non 200 status
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code %d", e.Endpoint, e.StatusCode)
}

// APIError is returned when the api reports a failure inside a 200 response
type APIError struct {
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request was rejected", e.Endpoint)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// AsStatusError attempts to unwrap an error into a StatusError
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
