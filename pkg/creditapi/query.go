package creditapi

import (
	"context"

	"github.com/sells-group/credit-insights/internal/model"
)

// The upstream schema exposes the credit-report payload with its legacy
// MISMO-style field names; queries select them verbatim and the
// ingestion layer maps them into canonical form.
const customerRecordsQuery = `
query CustomerCreditRecords($customerId: ID!) {
  customer(id: $customerId) {
    creditRecords {
      id
      CreditResponse {
        CREDIT_BUREAU
        CreditReportFirstIssuedDate
        CREDIT_SCORE {
          Value
          ModelNameType
          CreditRepositorySourceType
        }
        CREDIT_SUMMARY {
          DATA_SET {
            ID
            Name
            Value
          }
        }
      }
    }
  }
}`

const transactionsQuery = `
query CustomerTransactions($customerId: ID!, $limit: Int) {
  customer(id: $customerId) {
    transactions(limit: $limit) {
      id
      date
      amount
      merchant
      category
      description
    }
  }
}`

const phoneHistoryQuery = `
query CustomerPhoneHistory($customerId: ID!) {
  customer(id: $customerId) {
    phoneHistory {
      number
      carrier
      lineType
      status
      reportedAt
    }
  }
}`

// CustomerRecords fetches all raw credit-report records for a customer.
// Records come back as opaque maps so the aggregation engine owns all
// shape validation.
func (c *httpClient) CustomerRecords(ctx context.Context, customerID string) ([]model.RawRecord, error) {
	var data struct {
		Customer struct {
			CreditRecords []model.RawRecord `json:"creditRecords"`
		} `json:"customer"`
	}
	if err := c.execute(ctx, customerRecordsQuery, map[string]any{"customerId": customerID}, &data); err != nil {
		return nil, err
	}
	return data.Customer.CreditRecords, nil
}

// Transactions fetches up to limit recent transactions for a customer.
func (c *httpClient) Transactions(ctx context.Context, customerID string, limit int) ([]model.Transaction, error) {
	var data struct {
		Customer struct {
			Transactions []model.Transaction `json:"transactions"`
		} `json:"customer"`
	}
	vars := map[string]any{"customerId": customerID, "limit": limit}
	if err := c.execute(ctx, transactionsQuery, vars, &data); err != nil {
		return nil, err
	}
	return data.Customer.Transactions, nil
}

// PhoneHistory fetches the customer's phone history events.
func (c *httpClient) PhoneHistory(ctx context.Context, customerID string) ([]model.PhoneEvent, error) {
	var data struct {
		Customer struct {
			PhoneHistory []model.PhoneEvent `json:"phoneHistory"`
		} `json:"customer"`
	}
	if err := c.execute(ctx, phoneHistoryQuery, map[string]any{"customerId": customerID}, &data); err != nil {
		return nil, err
	}
	return data.Customer.PhoneHistory, nil
}
