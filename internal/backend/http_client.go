package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alexmendoza/salesboard/internal/domain"
)

// HTTPClient talks JSON over HTTP to the proposal backend. It implements
// StatusAPI, ScheduleAPI and ProposalAPI. Denied calls come back as
// PermissionError, everything else that fails as PersistenceError, so the
// services' degradation rules apply uniformly.
type HTTPClient struct {
	baseURL  string
	username string
	http     *http.Client
}

// NewHTTPClient creates a backend client for the given base URL. username is
// sent on every request to identify the caller.
func NewHTTPClient(baseURL, username string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:  baseURL,
		username: username,
		http:     &http.Client{Timeout: timeout},
	}
}

type proposalDTO struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	PIC            string     `json:"pic"`
	BOM            string     `json:"bom"`
	AccountManager string     `json:"account_manager"`
	Client         string     `json:"client"`
	Solution       string     `json:"solution"`
	FinalAmount    float64    `json:"final_amount"`
	RevisionNumber int        `json:"revision_number"`
	Margin         float64    `json:"margin"`
	SubmissionDate *time.Time `json:"submission_date,omitempty"`
	Comment        string     `json:"comment"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (d proposalDTO) toDomain() *domain.Proposal {
	return &domain.Proposal{
		ID:             d.ID,
		Status:         domain.ProposalStatus(d.Status),
		PIC:            d.PIC,
		BOM:            d.BOM,
		AccountManager: d.AccountManager,
		Client:         d.Client,
		Solution:       d.Solution,
		FinalAmount:    d.FinalAmount,
		RevisionNumber: d.RevisionNumber,
		Margin:         d.Margin,
		SubmissionDate: d.SubmissionDate,
		Comment:        d.Comment,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type taskDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        string    `json:"time"`
	Priority    string    `json:"priority"`
	Category    string    `json:"category"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func taskToDTO(t domain.CustomTask) taskDTO {
	return taskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Time:        t.Time,
		Priority:    string(t.Priority),
		Category:    t.Category,
		Comment:     t.Comment,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDTO) toDomain() domain.CustomTask {
	return domain.CustomTask{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Time:        d.Time,
		Priority:    domain.TaskPriority(d.Priority),
		Category:    d.Category,
		Comment:     d.Comment,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type placementDTO struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Type      string    `json:"type"`
	WeekStart string    `json:"week_start"`
	DayIndex  int       `json:"day_index"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d placementDTO) toDomain() domain.Placement {
	week, _ := time.Parse("2006-01-02", d.WeekStart)
	return domain.Placement{
		ID:        d.ID,
		ItemID:    d.ItemID,
		Type:      domain.PlacementType(d.Type),
		WeekStart: week,
		DayIndex:  d.DayIndex,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type weekDTO struct {
	Proposals []placementDTO `json:"proposals"`
	Tasks     []placementDTO `json:"tasks"`
	TaskByID  []taskDTO      `json:"task_bodies"`
}

type placeRequest struct {
	ItemID    string `json:"item_id"`
	WeekStart string `json:"week_start"`
	DayIndex  int    `json:"day_index"`
}

const wireDate = "2006-01-02"

func (c *HTTPClient) ListProposals(ctx context.Context) ([]*domain.Proposal, error) {
	var dtos []proposalDTO
	if err := c.do(ctx, http.MethodGet, "/api/proposals", nil, nil, &dtos); err != nil {
		return nil, err
	}
	proposals := make([]*domain.Proposal, 0, len(dtos))
	for _, d := range dtos {
		proposals = append(proposals, d.toDomain())
	}
	return proposals, nil
}

func (c *HTTPClient) UpdateStatus(ctx context.Context, proposalID string, status domain.ProposalStatus) (*domain.Proposal, error) {
	body := map[string]string{"status": string(status)}
	var dto proposalDTO
	path := "/api/proposals/" + url.PathEscape(proposalID) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *HTTPClient) RecordHistory(ctx context.Context, entry HistoryEntry) error {
	body := map[string]any{
		"proposal_id": entry.ProposalID,
		"new_status":  string(entry.NewStatus),
		"actor":       entry.Actor,
		"reason":      entry.Reason,
		"at":          entry.At,
	}
	path := "/api/proposals/" + url.PathEscape(entry.ProposalID) + "/history"
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

func (c *HTTPClient) LoadWeek(ctx context.Context, weekStart time.Time, filter *domain.FilterState) (*WeekSchedule, error) {
	query := url.Values{"week": {weekStart.Format(wireDate)}}
	if filter != nil {
		if filter.SearchText != "" {
			query.Set("search", filter.SearchText)
		}
		if filter.Client != "" {
			query.Set("client", filter.Client)
		}
		if filter.AccountManager != "" {
			query.Set("am", filter.AccountManager)
		}
		if filter.Solution != "" {
			query.Set("solution", filter.Solution)
		}
		if filter.PIC != "" {
			query.Set("pic", filter.PIC)
		}
	}

	var dto weekDTO
	if err := c.do(ctx, http.MethodGet, "/api/schedule", query, nil, &dto); err != nil {
		return nil, err
	}

	week := NewWeekSchedule()
	for _, p := range dto.Proposals {
		pl := p.toDomain()
		week.Proposals[pl.DayIndex] = append(week.Proposals[pl.DayIndex], pl)
	}
	for _, p := range dto.Tasks {
		pl := p.toDomain()
		week.Tasks[pl.DayIndex] = append(week.Tasks[pl.DayIndex], pl)
	}
	for _, t := range dto.TaskByID {
		week.TaskByID[t.ID] = t.toDomain()
	}
	return week, nil
}

func (c *HTTPClient) PlaceProposal(ctx context.Context, proposalID string, weekStart time.Time, dayIndex int) error {
	body := placeRequest{ItemID: proposalID, WeekStart: weekStart.Format(wireDate), DayIndex: dayIndex}
	return c.do(ctx, http.MethodPost, "/api/schedule/proposals", nil, body, nil)
}

func (c *HTTPClient) MoveProposal(ctx context.Context, proposalID string, weekStart time.Time, dayIndex int) error {
	body := placeRequest{ItemID: proposalID, WeekStart: weekStart.Format(wireDate), DayIndex: dayIndex}
	path := "/api/schedule/proposals/" + url.PathEscape(proposalID)
	return c.do(ctx, http.MethodPatch, path, nil, body, nil)
}

func (c *HTTPClient) AddTask(ctx context.Context, task domain.CustomTask, weekStart time.Time, dayIndex int) (*domain.CustomTask, error) {
	body := struct {
		Task      taskDTO `json:"task"`
		WeekStart string  `json:"week_start"`
		DayIndex  int     `json:"day_index"`
	}{taskToDTO(task), weekStart.Format(wireDate), dayIndex}

	var dto taskDTO
	if err := c.do(ctx, http.MethodPost, "/api/schedule/tasks", nil, body, &dto); err != nil {
		return nil, err
	}
	created := dto.toDomain()
	return &created, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, task domain.CustomTask) error {
	path := "/api/schedule/tasks/" + url.PathEscape(task.ID)
	return c.do(ctx, http.MethodPut, path, nil, taskToDTO(task), nil)
}

func (c *HTTPClient) MoveTask(ctx context.Context, taskID string, weekStart time.Time, dayIndex int) error {
	body := placeRequest{ItemID: taskID, WeekStart: weekStart.Format(wireDate), DayIndex: dayIndex}
	path := "/api/schedule/tasks/" + url.PathEscape(taskID) + "/placement"
	return c.do(ctx, http.MethodPatch, path, nil, body, nil)
}

func (c *HTTPClient) DeleteTask(ctx context.Context, taskID string) error {
	path := "/api/schedule/tasks/" + url.PathEscape(taskID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *HTTPClient) ToggleCompletion(ctx context.Context, itemID string, itemType domain.PlacementType, weekStart time.Time, dayIndex int, completed bool) error {
	body := struct {
		ItemID    string `json:"item_id"`
		Type      string `json:"type"`
		WeekStart string `json:"week_start"`
		DayIndex  int    `json:"day_index"`
		Completed bool   `json:"completed"`
	}{itemID, string(itemType), weekStart.Format(wireDate), dayIndex, completed}
	return c.do(ctx, http.MethodPost, "/api/schedule/completion", nil, body, nil)
}

func (c *HTTPClient) ListScheduleUsers(ctx context.Context) ([]ScheduleUser, error) {
	var users []ScheduleUser
	if err := c.do(ctx, http.MethodGet, "/api/schedule/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// do performs one JSON round trip. body and out may be nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshaling request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Username", c.username)

	resp, err := c.http.Do(req)
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusUnauthorized:
		return &PermissionError{Op: op, Detail: readErrorDetail(resp.Body)}
	case resp.StatusCode >= 400:
		return &PersistenceError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, readErrorDetail(resp.Body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &PersistenceError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// readErrorDetail extracts {"error": "..."} from an error body, falling back
// to the raw text.
func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
		return envelope.Error
	}
	return string(bytes.TrimSpace(data))
}
