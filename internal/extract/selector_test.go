package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const selectorSample = `// Horde category choices
ref autoptr Param5<int, int, string, string, string> data_Horde_5_ChooseCategories = new Param5<int, int, string, string, string>(1, 3, CatA, Empty, Empty);
ref autoptr Param5<int, int, string, string, string> data_Horde_12_ChooseCategories = new Param5<int, int, string, string, string>(2, 1, CatA, CatB, CatC);
// data_Horde_99_ChooseCategories = new Param5<int, int, string, string, string>(1, 1, CatZ, Empty, Empty);
data_Horde_7_ChooseCategories = new Param5<int, int, string, string, string>(1, 1, CatB);
`

func TestSelectors(t *testing.T) {
	sel := Selectors(selectorSample, zap.NewNop())
	require.Len(t, sel, 2)

	s5 := sel[5]
	assert.Equal(t, 5, s5.Config)
	assert.Equal(t, [3]string{"CatA", "Empty", "Empty"}, s5.Categories)
	assert.Equal(t, []string{"CatA"}, s5.CategoryNames(), "Empty slots are not categories")

	s12 := sel[12]
	assert.Equal(t, []string{"CatA", "CatB", "CatC"}, s12.CategoryNames())

	assert.NotContains(t, sel, 99, "commented-out selector skipped")
	assert.NotContains(t, sel, 7, "too few arguments is a silent skip")
}
