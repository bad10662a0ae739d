package receipt

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/raidhaan/pos-backend/pkg/db/models"
	pkgerrors "github.com/raidhaan/pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Renderer produces a self-contained printable receipt document from a fully
// loaded order snapshot. It performs no lookups: every figure comes from the
// order header and the snapshotted line item prices.
type Renderer struct {
	storeName string
	tmpl      *template.Template
}

// NewRenderer builds a renderer with the given store header name.
func NewRenderer(storeName string) (*Renderer, error) {
	if strings.TrimSpace(storeName) == "" {
		storeName = "My Restaurant"
	}
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing receipt template: %w", err)
	}
	return &Renderer{storeName: storeName, tmpl: tmpl}, nil
}

type receiptRow struct {
	Name      string
	Quantity  int
	LineTotal string
}

type receiptData struct {
	StoreName   string
	OrderNumber string
	Date        string
	Rows        []receiptRow
	Total       string
	AutoPrint   bool
}

// Render returns the 80mm receipt document for the order.
func (r *Renderer) Render(order *models.Order) (string, error) {
	return r.render(order, false)
}

// RenderAutoPrint returns the receipt with a script that opens the print
// dialog as soon as a browsing context loads it. Used by the browser print
// fallback channel.
func (r *Renderer) RenderAutoPrint(order *models.Order) (string, error) {
	return r.render(order, true)
}

func (r *Renderer) render(order *models.Order, autoPrint bool) (string, error) {
	if order == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}

	data := receiptData{
		StoreName:   r.storeName,
		OrderNumber: order.OrderNumber,
		Date:        order.CreatedAt.Format("2006-01-02 15:04"),
		Total:       order.TotalAmount.StringFixed(2),
		AutoPrint:   autoPrint,
	}

	for _, line := range order.Items {
		if line.Item == nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("order item %d is missing its catalog item", line.ID))
		}
		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		data.Rows = append(data.Rows, receiptRow{
			Name:      line.Item.Name,
			Quantity:  line.Quantity,
			LineTotal: lineTotal.StringFixed(2),
		})
	}

	var buf strings.Builder
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering receipt: %w", err)
	}
	return buf.String(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    @page {
      size: 80mm 200mm;
      margin: 0;
    }

    @media print {
      * {
        -webkit-print-color-adjust: exact !important;
        print-color-adjust: exact !important;
      }
    }

    html, body {
      margin: 0;
      padding: 0;
      width: 80mm;
      font-family: 'Courier New', monospace;
      font-size: 12px;
      line-height: 1.4;
    }

    .receipt {
      width: 80mm;
      padding: 5mm;
      background: white;
    }

    .header {
      text-align: center;
      margin-bottom: 8px;
      font-size: 16px;
      font-weight: bold;
    }

    .info {
      margin-bottom: 8px;
      font-size: 11px;
    }

    .divider {
      border-top: 1px dashed #000;
      margin: 8px 0;
    }

    table {
      width: 100%;
      border-collapse: collapse;
    }

    th {
      text-align: left;
      padding: 4px 0;
      font-weight: bold;
      font-size: 11px;
      border-bottom: 1px solid #000;
    }

    td {
      padding: 4px 0;
      font-size: 11px;
    }

    .item { width: 50%; }
    .qty { width: 15%; text-align: center; }
    .price { width: 35%; text-align: right; }

    .total-section {
      margin-top: 8px;
      padding-top: 8px;
      border-top: 1px solid #000;
    }

    .total-row {
      display: flex;
      justify-content: space-between;
      font-weight: bold;
      font-size: 12px;
    }

    .footer {
      text-align: center;
      margin-top: 12px;
      font-size: 10px;
    }
  </style>
</head>
<body>
  <div class="receipt">
    <div class="header">{{.StoreName}}</div>

    <div class="info">
      <div>Order #: {{.OrderNumber}}</div>
      <div>Date: {{.Date}}</div>
    </div>

    <div class="divider"></div>

    <table>
      <thead>
        <tr>
          <th class="item">Item</th>
          <th class="qty">Qty</th>
          <th class="price">Price</th>
        </tr>
      </thead>
      <tbody>
        {{range .Rows}}<tr>
          <td class="item">{{.Name}}</td>
          <td class="qty">{{.Quantity}}</td>
          <td class="price">{{.LineTotal}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="total-section">
      <div class="total-row">
        <span>Total</span>
        <span>{{.Total}}</span>
      </div>
    </div>

    <div class="footer">Thank you!</div>
  </div>
{{if .AutoPrint}}  <script>window.addEventListener('load', function () { window.print(); });</script>
{{end}}</body>
</html>
`
