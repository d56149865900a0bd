package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
	"github.com/valtio-lab/finsight/pkg/service/convert"
	"github.com/valtio-lab/finsight/pkg/service/schema"
	"github.com/valtio-lab/finsight/pkg/usecase"
)

const testTable = "proj.finnish_finance_data.budget_transactions"

func newConverter(reply string) *convert.Converter {
	client := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{reply}}, nil
				},
			}, nil
		},
	}

	conv := convert.New(client)
	conv.SetTableInfo(testTable, []schema.Field{
		{Name: "Vuosi", Type: "INTEGER"},
		{Name: "Nettokertymä", Type: "FLOAT"},
	})
	return conv
}

func TestAsk(t *testing.T) {
	ctx := context.Background()
	reply := "```sql\nSELECT SUM(Nettokertymä) FROM " + testTable + " WHERE Vuosi = 2023\n```\n\n" +
		"Explanation:\nTotal spending for 2023.\n"

	uc := usecase.New(newConverter(reply))
	result := uc.Ask(ctx, "How much was spent in 2023?")

	gt.True(t, result.HasSQL())
	gt.S(t, result.SQL).Contains("`Nettokertymä`")
	gt.V(t, result.Explanation).Equal("Total spending for 2023.")
}

func TestValidateWithoutBigQuery(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(newConverter("unused"))

	_, err := uc.Validate(ctx, "SELECT 1")
	gt.Error(t, err)
}

func TestExecuteWithoutBigQuery(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(newConverter("unused"))

	_, _, err := uc.Execute(ctx, "SELECT 1", 10)
	gt.Error(t, err)
}
