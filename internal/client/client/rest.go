package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/unirent/unirent/internal/client/models"
	"github.com/unirent/unirent/internal/common"
	"github.com/unirent/unirent/internal/logging"
)

const (
	apiPrefix       = "/api"
	defaultPageSize = 50
	maxBodySize     = 1 << 20
)

// RESTClient talks to the reservation backend over HTTP/JSON using the
// credentials held by its Session.
type RESTClient struct {
	baseURL  string
	http     *http.Client
	session  *Session
	clock    clockwork.Clock
	log      logging.Logger
	pageSize int

	onRejected func(ctx context.Context, token string)
}

var _ Client = (*RESTClient)(nil)

type Option func(*RESTClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *RESTClient) { c.http = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *RESTClient) { c.http.Timeout = d }
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *RESTClient) { c.clock = clock }
}

func WithLogger(l logging.Logger) Option {
	return func(c *RESTClient) { c.log = l }
}

func WithPageSize(n int) Option {
	return func(c *RESTClient) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithOnRejected registers fn to run after the backend answers 401 to the
// session credentials. fn receives the rejected token; the session is
// already cleared by then.
func WithOnRejected(fn func(ctx context.Context, token string)) Option {
	return func(c *RESTClient) { c.onRejected = fn }
}

func NewRESTClient(baseURL string, session *Session, opts ...Option) (*RESTClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid server url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if session == nil {
		session = NewSession()
	}

	c := &RESTClient{
		baseURL:  u.String(),
		http:     &http.Client{},
		session:  session,
		clock:    clockwork.NewRealClock(),
		log:      logging.Discard(),
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *RESTClient) Session() *Session {
	return c.session
}

func (c *RESTClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do sends one request and decodes a JSON response into out (when non-nil).
// Transport failures wrap ErrUnavailable; non-2xx answers become
// *common.RemoteError.
func (c *RESTClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Basic "+token)
	}

	start := c.clock.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return errors.Wrapf(ErrUnavailable, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "read %s %s: %v", method, path, err)
	}
	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode, "elapsed", c.clock.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRemoteError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &decodeError{op: method + " " + path, err: err}
	}
	return nil
}

// decodeError is a 2xx answer whose body could not be read. It matches
// ErrUnavailable, but the request itself did take effect.
type decodeError struct {
	op  string
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("decode %s: %v: %v", e.op, e.err, ErrUnavailable)
}

func (e *decodeError) Unwrap() error {
	return ErrUnavailable
}

func newRemoteError(status int, raw []byte) *common.RemoteError {
	e := &common.RemoteError{StatusCode: status, Body: strings.TrimSpace(string(raw))}

	var details struct {
		Komunikat string `json:"komunikat"`
		Message   string `json:"message"`
	}
	if json.Unmarshal(raw, &details) == nil {
		e.Message = details.Komunikat
		if e.Message == "" {
			e.Message = details.Message
		}
	}
	return e
}

// Ping reports whether the backend answers at all. Any response below 500,
// including 401, counts as reachable.
func (c *RESTClient) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/devices", url.Values{"size": {"1"}}, nil, nil)
	var re *common.RemoteError
	if errors.As(err, &re) && re.StatusCode < 500 {
		return nil
	}
	return err
}

// Me returns the user behind the session credentials. A 401 clears the
// session.
func (c *RESTClient) Me(ctx context.Context) (*models.User, error) {
	token := c.session.Token()

	var u models.User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &u)
	if err != nil {
		if common.IsCredentialsRejected(err) {
			c.session.Clear()
			if c.onRejected != nil && token != "" {
				c.onRejected(ctx, token)
			}
		}
		return nil, err
	}
	return &u, nil
}

type wireDevice struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	SerialNumber string `json:"serialNumber"`
	Location     string `json:"location"`
	Status       string `json:"status"`
}

func (d wireDevice) toModel() models.Device {
	return models.Device{
		ID:           d.ID,
		Name:         d.Name,
		Type:         d.Type,
		SerialNumber: d.SerialNumber,
		Location:     d.Location,
		Status:       models.ParseDeviceStatus(d.Status),
	}
}

func (c *RESTClient) SearchDevices(ctx context.Context, q DeviceQuery) (*Page[models.Device], error) {
	query := url.Values{}
	setIf(query, "q", q.Q)
	setIf(query, "type", q.Type)
	setIf(query, "status", q.Status)
	setIf(query, "location", q.Location)
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(c.size(q.Size)))

	var wire Page[wireDevice]
	if err := c.do(ctx, http.MethodGet, "/devices", query, nil, &wire); err != nil {
		return nil, err
	}

	page := &Page[models.Device]{
		Content:       make([]models.Device, 0, len(wire.Content)),
		TotalElements: wire.TotalElements,
		TotalPages:    wire.TotalPages,
		Size:          wire.Size,
		Number:        wire.Number,
	}
	for _, d := range wire.Content {
		page.Content = append(page.Content, d.toModel())
	}
	return page, nil
}

func (c *RESTClient) GetDevice(ctx context.Context, id int64) (*models.Device, error) {
	var wire wireDevice
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/devices/%d", id), nil, nil, &wire); err != nil {
		return nil, err
	}
	d := wire.toModel()
	return &d, nil
}

type wireReservation struct {
	ID       json.Number `json:"id"`
	Device   wireDevice  `json:"device"`
	User     *wireUser   `json:"user,omitempty"`
	FromDate string      `json:"fromDate"`
	ToDate   string      `json:"toDate"`
	Status   string      `json:"status"`
}

type wireUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type createReservationRequest struct {
	DeviceID int64  `json:"deviceId"`
	UserID   int64  `json:"userId"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

// toModel normalizes a backend reservation. The backend does not report a
// creation time, so createdAt is stamped with now.
func (w wireReservation) toModel(now time.Time) (models.Reservation, error) {
	from, err := models.ParseDate(w.FromDate)
	if err != nil {
		return models.Reservation{}, errors.Wrapf(err, "reservation %s fromDate", w.ID)
	}
	to, err := models.ParseDate(w.ToDate)
	if err != nil {
		return models.Reservation{}, errors.Wrapf(err, "reservation %s toDate", w.ID)
	}

	r := models.Reservation{
		ID:            w.ID.String(),
		EquipmentID:   w.Device.ID,
		EquipmentName: w.Device.Name,
		EquipmentType: w.Device.Type,
		SerialNumber:  w.Device.SerialNumber,
		Location:      w.Device.Location,
		DateFrom:      from,
		DateTo:        to,
		CreatedAt:     now.UTC(),
		Status:        statusFromBackend(w.Status),
	}
	if w.User != nil {
		r.UserID = w.User.ID
		r.UserName = w.User.Username
	}
	return r, nil
}

// List returns the current user's reservations. The backend honours only
// one of userId/deviceId/status, so deviceId and status are re-applied here.
func (c *RESTClient) List(ctx context.Context, filter models.ListFilter) ([]models.Reservation, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("userId", strconv.FormatInt(me.ID, 10))
	if filter.DeviceID != 0 {
		query.Set("deviceId", strconv.FormatInt(filter.DeviceID, 10))
	}
	setIf(query, "status", statusToBackend(filter.Status))
	query.Set("page", strconv.Itoa(filter.Page))
	query.Set("size", strconv.Itoa(c.size(filter.Size)))

	var wire Page[wireReservation]
	if err := c.do(ctx, http.MethodGet, "/reservations", query, nil, &wire); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	result := make([]models.Reservation, 0, len(wire.Content))
	for _, w := range wire.Content {
		r, err := w.toModel(now)
		if err != nil {
			c.log.Warn(ctx, "skipping malformed reservation", "id", w.ID.String(), "error", err)
			continue
		}
		if filter.Match(r) {
			result = append(result, r)
		}
	}
	return result, nil
}

// Create books a device for the current user. Date rules are left to the
// caller and the backend.
func (c *RESTClient) Create(ctx context.Context, in models.NewReservationInput) (*models.Reservation, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}

	body := createReservationRequest{
		DeviceID: in.Device.ID,
		UserID:   me.ID,
		FromDate: in.DateFrom.UTC().Format(time.DateOnly),
		ToDate:   in.DateTo.UTC().Format(time.DateOnly),
	}

	var wire wireReservation
	err = c.do(ctx, http.MethodPost, "/reservations", nil, body, &wire)
	var de *decodeError
	switch {
	case errors.As(err, &de):
		c.log.Warn(ctx, "reservation created but the response is unreadable", "error", err)
	case err != nil:
		return nil, err
	}

	r, err := wire.toModel(c.clock.Now())
	if err != nil {
		// The booking went through; report what was sent.
		r = models.Reservation{
			ID:            wire.ID.String(),
			EquipmentID:   in.Device.ID,
			EquipmentName: in.Device.Name,
			EquipmentType: in.Device.Type,
			SerialNumber:  in.Device.SerialNumber,
			Location:      in.Device.Location,
			DateFrom:      in.DateFrom,
			DateTo:        in.DateTo,
			CreatedAt:     c.clock.Now().UTC(),
			Status:        models.StatusScheduled,
		}
	}
	if r.UserID == 0 {
		r.UserID, r.UserName = me.ID, me.Username
	}
	c.log.Info(ctx, "reservation created", "id", r.ID, "device", r.EquipmentID)
	return &r, nil
}

// Cancel cancels a backend reservation. Ids that are not numeric cannot
// exist on the backend and yield ErrNotFound.
func (c *RESTClient) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, errors.Wrapf(common.ErrNotFound, "reservation %s", id)
	}

	var wire wireReservation
	if err := c.do(ctx, http.MethodPost, "/reservations/"+id+"/cancel", nil, nil, &wire); err != nil {
		return nil, err
	}
	if wire.ID == "" {
		wire.ID = json.Number(id)
	}

	r, err := wire.toModel(c.clock.Now())
	if err != nil {
		// The cancel succeeded; report what is known.
		r = models.Reservation{ID: id, Status: models.StatusCancelled, CreatedAt: c.clock.Now().UTC()}
	}
	c.log.Info(ctx, "reservation cancelled", "id", id)
	return &r, nil
}

func (c *RESTClient) size(n int) int {
	if n > 0 {
		return n
	}
	return c.pageSize
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
