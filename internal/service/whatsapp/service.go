package whatsapp

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/domain/models"
	client "github.com/mamadbah2/gigboard/pkg/clients/whatsapp"
)

// maxBodyLength is the Cloud API limit for a text message body.
const maxBodyLength = 4096

const sendTimeout = 10 * time.Second

// MessagingService pushes outbound notifications.
type MessagingService interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(c client.Client, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{client: c, logger: logger}
}

// SendOutbound sends a message, split into several when it exceeds the body limit.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if strings.TrimSpace(req.To) == "" {
		return errors.New("missing recipient")
	}
	if strings.TrimSpace(req.Message) == "" {
		return errors.New("empty message body")
	}

	for _, part := range splitMessage(req.Message, maxBodyLength) {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
		id, err := s.client.SendText(ctxWithTimeout, client.TextMessage{
			To:         req.To,
			Body:       part,
			PreviewURL: req.PreviewURL,
		})
		cancel()
		if err != nil {
			return err
		}
		s.logger.Debug("whatsapp message sent", zap.String("message_id", id), zap.Int("length", len(part)))
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit runes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
