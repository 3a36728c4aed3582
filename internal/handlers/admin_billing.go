package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/michael-berardi/harborform/internal/ledger"
	"github.com/michael-berardi/harborform/internal/models"
)

type billingRow struct {
	models.BillingItem
	Amount float64
}

func billingRows(l *ledger.Billing, items []models.BillingItem) []billingRow {
	rows := make([]billingRow, len(items))
	for i, it := range items {
		rows[i] = billingRow{BillingItem: it, Amount: l.Amount(it)}
	}
	return rows
}

func (h *AdminHandler) ListBilling(w http.ResponseWriter, r *http.Request) {
	items, err := h.Ledgers.Billing.List(r.Context())
	if err != nil {
		slog.Error("Error fetching billing items", "error", err)
		http.Error(w, "Error fetching billing items", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin_billing.html", map[string]interface{}{
		"Items": billingRows(h.Ledgers.Billing, items),
	})
}

func (h *AdminHandler) CreateBilling(w http.ResponseWriter, r *http.Request) {
	in := models.NewBillingItem{
		TaskID:      strings.TrimSpace(r.FormValue("task_id")),
		Title:       strings.TrimSpace(r.FormValue("title")),
		Client:      strings.TrimSpace(r.FormValue("client")),
		Property:    strings.TrimSpace(r.FormValue("property")),
		Platforms:   splitList(r.FormValue("platforms")),
		IsFixedRate: r.FormValue("is_fixed_rate") == "on",
		Date:        strings.TrimSpace(r.FormValue("date")),
	}

	var err error
	if in.Duration, err = parseNumber(r.FormValue("duration")); err != nil {
		h.redirect(w, r, "/admin/billing", "error", "Duration must be a number of hours.")
		return
	}
	if v := strings.TrimSpace(r.FormValue("minutes")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			h.redirect(w, r, "/admin/billing", "error", "Minutes must be a whole number.")
			return
		}
		in.Minutes = &m
	}
	if v := strings.TrimSpace(r.FormValue("rate")); v != "" {
		rate, err := parseNumber(v)
		if err != nil {
			h.redirect(w, r, "/admin/billing", "error", "Rate must be a number.")
			return
		}
		in.Rate = &rate
	}
	if msg := checkForm(in); msg != "" {
		h.redirect(w, r, "/admin/billing", "error", msg)
		return
	}
	switch {
	case in.Minutes != nil && *in.Minutes < 0:
		h.redirect(w, r, "/admin/billing", "error", "Minutes must not be negative.")
		return
	case in.Rate != nil && *in.Rate < 0:
		h.redirect(w, r, "/admin/billing", "error", "Rate must not be negative.")
		return
	}

	item, err := h.Ledgers.Billing.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "/admin/billing", err)
		return
	}
	h.redirect(w, r, "/admin/billing", "success",
		fmt.Sprintf("Logged %q for %s.", item.Title, item.Client))
}

func (h *AdminHandler) UpdateBillingStatus(w http.ResponseWriter, r *http.Request) {
	status := models.BillingStatus(r.FormValue("status"))
	if status != models.BillingPending && status != models.BillingInvoiced {
		h.redirect(w, r, "/admin/billing", "error", "Invalid status selected.")
		return
	}
	_, found, err := h.Ledgers.Billing.Update(r.Context(), r.FormValue("id"), models.BillingPatch{Status: &status})
	if err != nil {
		h.fail(w, r, "/admin/billing", err)
		return
	}
	if !found {
		h.redirect(w, r, "/admin/billing", "error", "Billing item not found.")
		return
	}
	h.redirect(w, r, "/admin/billing", "success", "Billing item updated!")
}

func (h *AdminHandler) DeleteBilling(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledgers.Billing.Delete(r.Context(), r.FormValue("id")); err != nil {
		h.fail(w, r, "/admin/billing", err)
		return
	}
	h.redirect(w, r, "/admin/billing", "success", "Billing item deleted.")
}

// parseNumber treats a blank field as zero.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
