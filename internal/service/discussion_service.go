package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/middleware"
	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/observability"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
)

const (
	discussionRedisTTL   = 30 * time.Minute
	discussionSendBuffer = 32
)

// ErrDiscussionNotAuthorised indicates the sender may not post into the room.
var ErrDiscussionNotAuthorised = errors.New("sender not authorised for room")

// DiscussionConnectionOptions wraps metadata extracted during the HTTP upgrade.
type DiscussionConnectionOptions struct {
	UserID        string
	Role          string
	RoomID        string
	CorrelationID string
	Context       context.Context
}

// DiscussionService manages websocket room connections and message delivery.
type DiscussionService interface {
	ServeConnection(conn *websocket.Conn, opts DiscussionConnectionOptions)
	History(ctx context.Context, query dto.DiscussionHistoryQuery) ([]dto.DiscussionMessageResponse, error)
	Start(ctx context.Context)
}

type discussionService struct {
	repo        repository.DiscussionRepository
	redis       *redis.Client
	redisStream string
	redisCache  string
	nats        *nats.Conn
	natsSubject string
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	hub         *discussionHub
	nodeID      string
}

// discussionHub tracks active websocket clients per room and broadcasts.
type discussionHub struct {
	mu    sync.RWMutex
	rooms map[string]map[*discussionClient]struct{}
	log   zerolog.Logger
}

type discussionClient struct {
	conn    *websocket.Conn
	send    chan dto.DiscussionMessageResponse
	options DiscussionConnectionOptions
	service *discussionService
	closed  chan struct{}
	once    sync.Once
	baseCtx context.Context
}

type discussionEvent struct {
	Source  string                        `json:"source"`
	Message dto.DiscussionMessageResponse `json:"message"`
	SentAt  time.Time                     `json:"sent_at"`
}

// NewDiscussionService creates a websocket discussion hub instance.
func NewDiscussionService(repo repository.DiscussionRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, validate *validator.Validate, logger zerolog.Logger) DiscussionService {
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowElements("br")

	hub := &discussionHub{
		rooms: make(map[string]map[*discussionClient]struct{}),
		log:   logger.With().Str("component", "discussion_hub").Logger(),
	}

	streamChannel := ""
	cachePrefix := ""
	natsSubject := ""
	if channelBase != "" {
		streamChannel = channelBase + ":discussion"
		cachePrefix = channelBase + ":discussion:last"
		natsSubject = strings.ReplaceAll(channelBase, ":", ".") + ".discussion"
	}

	return &discussionService{
		repo:        repo,
		redis:       redisClient,
		redisStream: streamChannel,
		redisCache:  cachePrefix,
		nats:        natsConn,
		natsSubject: natsSubject,
		validator:   validate,
		logger:      logger.With().Str("component", "discussion_service").Logger(),
		tracer:      otel.Tracer("github.com/pathlight-labs/pathlight-api/internal/service/discussion"),
		sanitizer:   sanitizer,
		hub:         hub,
		nodeID:      uuid.NewString(),
	}
}

func (s *discussionService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *discussionService) ServeConnection(conn *websocket.Conn, opts DiscussionConnectionOptions) {
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	client := &discussionClient{
		conn:    conn,
		send:    make(chan dto.DiscussionMessageResponse, discussionSendBuffer),
		options: opts,
		service: s,
		closed:  make(chan struct{}),
		baseCtx: baseCtx,
	}

	s.hub.register(client)
	observability.DiscussionConnectionsTotal().Inc()

	if last := s.fetchLastMessage(baseCtx, opts.RoomID); last != nil {
		select {
		case client.send <- *last:
		default:
			s.logger.Debug().Str("room_id", opts.RoomID).Msg("dropping cached message due to slow consumer")
		}
	}

	go client.writer()
	client.reader()
}

func (s *discussionService) History(ctx context.Context, query dto.DiscussionHistoryQuery) ([]dto.DiscussionMessageResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	before := time.Time{}
	if query.Before != nil {
		before = *query.Before
	}

	messages, err := s.repo.ListByRoom(ctx, query.RoomID, before, query.Limit)
	if err != nil {
		return nil, err
	}

	return dto.NewDiscussionMessageResponseSlice(messages), nil
}

func (s *discussionService) processSend(ctx context.Context, client *discussionClient, correlation string, payload dto.DiscussionSendRequest) (dto.DiscussionMessageResponse, error) {
	if payload.RoomID == "" {
		payload.RoomID = client.options.RoomID
	}
	payload.RoomID = strings.TrimSpace(payload.RoomID)

	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionMessageResponse{}, err
	}

	if err := s.authorise(client, payload); err != nil {
		return dto.DiscussionMessageResponse{}, err
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if clean == "" {
		return dto.DiscussionMessageResponse{}, fmt.Errorf("message content empty after sanitization")
	}

	messageType := payload.Type
	if messageType == "" {
		messageType = "text"
	}

	attrs := []attribute.KeyValue{
		attribute.String("discussion.room_id", payload.RoomID),
		attribute.String("discussion.sender_id", client.options.UserID),
		attribute.String("discussion.type", messageType),
	}
	if correlation != "" {
		attrs = append(attrs, attribute.String("correlation_id", correlation))
	}

	spanCtx, span := s.tracer.Start(ctx, "discussion.broadcast", trace.WithAttributes(attrs...))
	defer span.End()

	model := models.DiscussionMessage{
		SenderID: client.options.UserID,
		RoomID:   payload.RoomID,
		Content:  clean,
		Type:     messageType,
	}

	if err := s.repo.Save(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.DiscussionMessageResponse{}, err
	}

	response := dto.NewDiscussionMessageResponse(model)
	s.cacheLastMessage(spanCtx, response)
	s.hub.broadcast(response.RoomID, response)
	if err := s.publish(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish discussion event")
	}

	observability.DiscussionMessagesSent().WithLabelValues(messageType).Inc()

	return response, nil
}

// authorise gates posting by role. Staff may post anywhere, students only
// into subject rooms or the room they connected to.
func (s *discussionService) authorise(client *discussionClient, payload dto.DiscussionSendRequest) error {
	role := strings.ToLower(client.options.Role)
	switch role {
	case "admin", "teacher":
		return nil
	case "student":
		if strings.HasPrefix(payload.RoomID, "subject:") {
			return nil
		}
		if payload.RoomID == client.options.RoomID {
			return nil
		}
		return ErrDiscussionNotAuthorised
	default:
		if payload.RoomID == client.options.RoomID {
			return nil
		}
		return ErrDiscussionNotAuthorised
	}
}

func (s *discussionService) cacheLastMessage(ctx context.Context, message dto.DiscussionMessageResponse) {
	if s.redis == nil || s.redisCache == "" {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal discussion message for cache")
		return
	}

	key := fmt.Sprintf("%s:%s", s.redisCache, message.RoomID)
	if err := s.redis.Set(ctx, key, payload, discussionRedisTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache discussion message")
	}
}

func (s *discussionService) fetchLastMessage(ctx context.Context, roomID string) *dto.DiscussionMessageResponse {
	if s.redis == nil || s.redisCache == "" {
		return nil
	}

	key := fmt.Sprintf("%s:%s", s.redisCache, roomID)
	result, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var message dto.DiscussionMessageResponse
	if err := json.Unmarshal([]byte(result), &message); err != nil {
		s.logger.Warn().Err(err).Msg("failed to unmarshal cached discussion message")
		return nil
	}

	return &message
}

func (s *discussionService) publish(ctx context.Context, message dto.DiscussionMessageResponse) error {
	event := discussionEvent{
		Source:  s.nodeID,
		Message: message,
		SentAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *discussionService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("discussion redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *discussionService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "pathlight-discussion", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats discussion subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain discussion nats subscription")
		}
	}()
}

func (s *discussionService) handleEvent(data []byte) {
	var event discussionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid discussion event")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	messageType := event.Message.Type
	if messageType == "" {
		messageType = "text"
	}

	observability.DiscussionMessagesSent().WithLabelValues(messageType).Inc()
	s.hub.broadcast(event.Message.RoomID, event.Message)
}

func (h *discussionHub) register(client *discussionClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := client.options.RoomID
	if room == "" {
		room = "default"
	}

	if _, exists := h.rooms[room]; !exists {
		h.rooms[room] = make(map[*discussionClient]struct{})
	}
	client.options.RoomID = room
	h.rooms[room][client] = struct{}{}
	h.log.Debug().Str("room_id", room).Str("user_id", client.options.UserID).Msg("discussion client connected")
}

func (h *discussionHub) unregister(client *discussionClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := client.options.RoomID
	if clients, ok := h.rooms[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	h.log.Debug().Str("room_id", room).Str("user_id", client.options.UserID).Msg("discussion client disconnected")
}

func (h *discussionHub) broadcast(roomID string, message dto.DiscussionMessageResponse) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.rooms[roomID]
	for client := range clients {
		select {
		case client.send <- message:
		default:
			h.log.Warn().Str("room_id", roomID).Str("user_id", client.options.UserID).Msg("dropping message for slow client")
		}
	}
}

func (c *discussionClient) reader() {
	defer c.close()

	connCtx := c.baseCtx
	if connCtx == nil {
		connCtx = context.Background()
	}
	correlation := c.options.CorrelationID
	if correlation == "" {
		correlation = middleware.CorrelationIDFromContext(connCtx)
	}

	for {
		var payload dto.DiscussionSendRequest
		if err := c.conn.ReadJSON(&payload); err != nil {
			c.service.logger.Debug().Err(err).Msg("discussion read loop ended")
			return
		}

		response, err := c.service.processSend(connCtx, c, correlation, payload)
		if err != nil {
			c.service.logger.Warn().Err(err).Msg("failed to process discussion message")
			continue
		}

		select {
		case <-c.closed:
			return
		default:
		}

		select {
		case c.send <- response:
		default:
			c.service.logger.Warn().Msg("sender queue full, dropping ack message")
		}
	}
}

func (c *discussionClient) writer() {
	defer c.close()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.service.logger.Debug().Err(err).Msg("discussion write loop terminated")
				return
			}
		case <-time.After(30 * time.Second):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Msg("discussion ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *discussionClient) close() {
	c.once.Do(func() {
		close(c.closed)
		c.service.hub.unregister(c)
		_ = c.conn.Close()
	})
}
