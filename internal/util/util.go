package util

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func Pprint(i interface{}) {
	bytes, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(bytes))
}

func FloatPointer(f float64) *float64 {
	return &f
}

func IntPointer(i int) *int {
	return &i
}

func StrPointer(s string) *string {
	return &s
}

func DecimalPointer(d decimal.Decimal) *decimal.Decimal {
	return &d
}
