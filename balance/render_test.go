package balance

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestPlaceholders(t *testing.T) {
	text := "Assets:Checking  <<Assets:Checking>>\n[Budget]  <<Budget:Food>> <<Assets:Checking>>\n<<not\nclosed>>"
	assert.Equal(t, []string{"Assets:Checking", "Budget:Food"}, Placeholders(text))
	assert.Equal(t, 0, len(Placeholders("no placeholders here")))
}

func TestRenderBalances(t *testing.T) {
	lookup := NewLookup(staticBackend(map[string]string{
		"Assets:Checking": "$1,000.50\n",
		"Budget:Food":     "-25\n",
	}))

	text := "Expenses:Rent  {{ .rent }}\n" +
		"Assets:Checking  <<Assets:Checking>>\n" +
		"[Budget:Food]  <<Budget:Food>> and <<Assets:Checking>>\n"

	got, err := RenderBalances(context.Background(), text, lookup)
	assert.NoError(t, err)
	assert.Equal(t, "Expenses:Rent  {{ .rent }}\n"+
		"Assets:Checking  100050\n"+
		"[Budget:Food]  -2500 and 100050\n", got)
}

func TestRenderBalancesWithoutPlaceholders(t *testing.T) {
	calls := 0
	lookup := NewLookup(unavailableBackend(&calls))

	got, err := RenderBalances(context.Background(), "A  $1\nB  $-1", lookup)
	assert.NoError(t, err)
	assert.Equal(t, "A  $1\nB  $-1", got)
	assert.Equal(t, 0, calls)
}

func TestRenderBalancesLookupError(t *testing.T) {
	lookup := NewLookup(staticBackend(map[string]string{}))

	_, err := RenderBalances(context.Background(), "A  <<Assets:Unknown>>", lookup)
	assert.Error(t, err)
}
