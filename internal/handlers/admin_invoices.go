package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/michael-berardi/harborform/internal/models"
)

func (h *AdminHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Ledgers.Invoices.List(r.Context())
	if err != nil {
		slog.Error("Error fetching invoices", "error", err)
		http.Error(w, "Error fetching invoices", http.StatusInternalServerError)
		return
	}
	items, err := h.Ledgers.Billing.List(r.Context())
	if err != nil {
		slog.Error("Error fetching billing items", "error", err)
		http.Error(w, "Error fetching billing items", http.StatusInternalServerError)
		return
	}
	var pending []models.BillingItem
	for _, it := range items {
		if it.Status == models.BillingPending {
			pending = append(pending, it)
		}
	}
	h.render(w, r, "admin_invoices.html", map[string]interface{}{
		"Invoices": invoices,
		"Pending":  billingRows(h.Ledgers.Billing, pending),
		"Statuses": []models.InvoiceStatus{models.InvoiceDraft, models.InvoiceSent, models.InvoicePaid},
	})
}

// CreateInvoice bills the selected pending items. The total is priced by
// the ledger; the client defaults to that of the first selected item.
func (h *AdminHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/admin/invoices", "error", "Invalid form submission.")
		return
	}
	ids := r.PostForm["item_id"]
	if len(ids) == 0 {
		h.redirect(w, r, "/admin/invoices", "error", "Select at least one billing item.")
		return
	}

	client := strings.TrimSpace(r.PostFormValue("client"))
	if client == "" {
		items, err := h.Ledgers.Billing.List(r.Context())
		if err != nil {
			h.fail(w, r, "/admin/invoices", err)
			return
		}
		for _, it := range items {
			if it.ID == ids[0] {
				client = it.Client
				break
			}
		}
	}
	if client == "" {
		h.redirect(w, r, "/admin/invoices", "error", "Choose the client to invoice.")
		return
	}

	total, err := h.Ledgers.Invoices.Quote(r.Context(), ids)
	if err != nil {
		h.fail(w, r, "/admin/invoices", err)
		return
	}
	inv, err := h.Ledgers.Invoices.Create(r.Context(), ids, total, client)
	if err != nil {
		h.fail(w, r, "/admin/invoices", err)
		return
	}
	h.redirect(w, r, "/admin/invoices", "success",
		fmt.Sprintf("Invoice %s created for %s ($%.2f).", inv.ID, inv.Client, inv.Total))
}

func (h *AdminHandler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	status := models.InvoiceStatus(r.FormValue("status"))
	_, found, err := h.Ledgers.Invoices.SetStatus(r.Context(), r.FormValue("id"), status)
	if err != nil {
		h.fail(w, r, "/admin/invoices", err)
		return
	}
	if !found {
		h.redirect(w, r, "/admin/invoices", "error", "Invoice not found.")
		return
	}
	h.redirect(w, r, "/admin/invoices", "success", "Invoice updated!")
}
