package webhook

import (
	"io"
	"net/http"

	"MacroBot/internal/catalog"
	drepo "MacroBot/internal/domain/repository"
	"MacroBot/internal/service/line"
	"MacroBot/internal/usecase"
	xhttp "MacroBot/pkg/http"
	xlogger "MacroBot/pkg/logger"
	"MacroBot/pkg/util"

	"github.com/labstack/echo/v4"
)

const helpText = "I can provide macroeconomic data. Send an abbreviation (e.g., 'FFR') to get details."

// LineHandler receives LINE webhook deliveries and replies to text messages.
type LineHandler struct {
	logger    *xlogger.Logger
	secret    string
	lookup    usecase.Lookup
	messenger drepo.Messenger
}

func NewLineHandler(logger *xlogger.Logger, channelSecret string, lookup usecase.Lookup, messenger drepo.Messenger) *LineHandler {
	return &LineHandler{logger: logger, secret: channelSecret, lookup: lookup, messenger: messenger}
}

func (h *LineHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/callback", h.Callback)
}

func (h *LineHandler) Index(c echo.Context) error {
	return c.String(http.StatusOK, "LINE Bot is running!")
}

func (h *LineHandler) Callback(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("unreadable body").WithError(err))
	}

	sig := c.Request().Header.Get(line.SignatureHeader)
	if sig == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("missing signature"))
	}
	if !line.VerifySignature(h.secret, body, sig) {
		h.logger.Warn("webhook signature mismatch", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid signature"))
	}

	req := &line.WebhookBody{}
	if verr := xhttp.DecodeAndValidate(body, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	for _, ev := range req.Events {
		text, ok := ev.Text()
		if !ok || ev.ReplyToken == "" {
			continue
		}

		code := util.NormalizeCode(text)
		blocks := []string{helpText}
		if catalog.Accepts(code) {
			blocks = h.lookup.HandleCode(ctx, code).Blocks
		}

		if err := h.messenger.Reply(ctx, ev.ReplyToken, blocks); err != nil {
			h.logger.Error("reply failed", xlogger.String("code", code), xlogger.Any("source", ev.Source), xlogger.Error(err))
		}
	}
	return c.String(http.StatusOK, "OK")
}
