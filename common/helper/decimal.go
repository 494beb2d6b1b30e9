package helper

import (
	"github.com/shopspring/decimal"
)

// TrimDecimal 金额统一输出为两位小数（四舍五入）
func TrimDecimal(val decimal.Decimal) string {
	return val.StringFixed(2)
}

// MoneyFromFloat 将数据库 float64 金额还原为 decimal（两位小数语义）
func MoneyFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
