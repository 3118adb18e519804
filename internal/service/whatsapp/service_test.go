package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mamadbah2/gigboard/internal/domain/models"
	client "github.com/mamadbah2/gigboard/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.TextMessage
	err  error
}

func (f *fakeClient) SendText(_ context.Context, msg client.TextMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "wamid", nil
}

func TestSendOutbound(t *testing.T) {
	Convey("Given a messaging service", t, func() {
		fake := &fakeClient{}
		svc := NewMetaWhatsAppService(fake, nil)
		ctx := context.Background()

		Convey("A short message is sent as is", func() {
			err := svc.SendOutbound(ctx, models.OutboundMessageRequest{To: "447700900000", Message: "Gig summary"})
			So(err, ShouldBeNil)
			So(fake.sent, ShouldHaveLength, 1)
			So(fake.sent[0].Body, ShouldEqual, "Gig summary")
		})

		Convey("A long message is split under the body limit", func() {
			line := strings.Repeat("x", 99) + "\n"
			err := svc.SendOutbound(ctx, models.OutboundMessageRequest{To: "447700900000", Message: strings.Repeat(line, 100)})
			So(err, ShouldBeNil)
			So(len(fake.sent), ShouldEqual, 3)
			total := 0
			for _, m := range fake.sent {
				So(len(m.Body), ShouldBeLessThanOrEqualTo, maxBodyLength)
				total += strings.Count(m.Body, "x")
			}
			So(total, ShouldEqual, 9900)
		})

		Convey("A missing recipient or body is rejected", func() {
			So(svc.SendOutbound(ctx, models.OutboundMessageRequest{Message: "hi"}), ShouldNotBeNil)
			So(svc.SendOutbound(ctx, models.OutboundMessageRequest{To: "1", Message: "  "}), ShouldNotBeNil)
			So(fake.sent, ShouldBeEmpty)
		})

		Convey("Client errors are returned", func() {
			boom := errors.New("boom")
			fake.err = boom
			So(svc.SendOutbound(ctx, models.OutboundMessageRequest{To: "1", Message: "hi"}), ShouldEqual, boom)
		})
	})
}

func TestSplitMessage(t *testing.T) {
	Convey("Text without line breaks is cut at the limit", t, func() {
		parts := splitMessage(strings.Repeat("é", 25), 10)
		So(parts, ShouldResemble, []string{strings.Repeat("é", 10), strings.Repeat("é", 10), strings.Repeat("é", 5)})
	})
}
