package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ledger/internal/currency"
)

func (h *handlers) languageTag(c *gin.Context) string {
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return lang
	}
	if h.deps.LanguageTag != "" {
		return h.deps.LanguageTag
	}
	return currency.DefaultLanguageTag
}

func (h *handlers) formatCurrency(c *gin.Context) {
	amount, err := decimal.NewFromString(strings.TrimSpace(c.Query("amount")))
	if err != nil {
		badRequest(c, "amount must be a number")
		return
	}
	withUnit, err := queryBool(c, "unit", false)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	lang := h.languageTag(c)
	symbol := c.DefaultQuery("symbol", h.deps.CurrencySymbol)

	text := currency.Format(amount, lang, symbol)
	if withUnit {
		text = currency.FormatWithUnit(amount, lang, symbol)
	}
	c.JSON(http.StatusOK, gin.H{"text": text, "lang": lang})
}

// parseCurrency never fails on malformed text, it answers zero instead.
func (h *handlers) parseCurrency(c *gin.Context) {
	lang := h.languageTag(c)
	amount := currency.ParseOrZero(c.Query("text"), lang)
	c.JSON(http.StatusOK, gin.H{
		"amount":        amount,
		"decimalPlaces": currency.CountDecimalPlace(amount),
		"lang":          lang,
	})
}
