package normalize

import (
	"deliverylens/internal/coerce"
	"deliverylens/internal/schema"
)

// The three platform configurations. Column vocabularies come from the
// exports themselves: DoorDash and Uber ship Chinese-locale headers, Grubhub
// ships snake_case English. Candidate order is priority order; where a
// platform reports several revenue figures the preferred one comes first.

// DoorDashSpec maps the DoorDash merchant settlement export.
var DoorDashSpec = Spec{
	Platform: PlatformDoorDash,
	IDPrefix: "DD",
	Fields: map[schema.Field]schema.FieldSpec{
		schema.FieldDate:         schema.Spec(schema.Exact("时间戳本地日期"), schema.Contains("时间戳"), schema.Contains("本地日期")),
		schema.FieldRevenue:      schema.Spec(schema.Exact("净总计"), schema.Contains("净总")),
		schema.FieldSubtotal:     schema.Spec(schema.Exact("小计")),
		schema.FieldTax:          schema.Spec(schema.Contains("税金")),
		schema.FieldTips:         schema.Spec(schema.Exact("员工小费"), schema.Contains("小费")),
		schema.FieldCommission:   schema.Spec(schema.Exact("佣金")),
		schema.FieldMarketingFee: schema.Spec(schema.Contains("营销")),
		schema.FieldStatus:       schema.Spec(schema.Exact("最终订单状态"), schema.Contains("订单状态")),
		schema.FieldStoreName:    schema.Spec(schema.Exact("店铺名称")),
		schema.FieldStoreID:      schema.Spec(schema.Exact("Store ID"), schema.Contains("Store ID")),
		schema.FieldOrderID:      schema.Spec(schema.Exact("DoorDash 订单 ID"), schema.Contains("订单 ID")),
	},
	Status: coerce.StatusVocab{
		Completed: []string{"delivered", "completed", "已送达"},
		Cancelled: []string{"cancelled", "cancel", "已取消"},
	},
}

// UberSpec maps the Uber Eats manager export. Some vintages ship a prose
// description line above the real header; the markers identify it so the
// normalizer can promote the next row. 收入总额 (total income) is preferred
// over the gross 销售额 figures, matching what the merchant actually nets.
var UberSpec = Spec{
	Platform: PlatformUber,
	IDPrefix: "UB",
	HeaderMarkers: []string{
		"优食管理工具",
		"识别编号",
	},
	Fields: map[schema.Field]schema.FieldSpec{
		schema.FieldDate:         schema.Spec(schema.Exact("订单日期"), schema.Contains("订单日期")),
		schema.FieldRevenue:      schema.Spec(schema.Exact("收入总额"), schema.Exact("销售额（含税）"), schema.Contains("销售额")),
		schema.FieldSubtotal:     schema.Spec(schema.Exact("销售额（不含税）")),
		schema.FieldTax:          schema.Spec(schema.Exact("税费"), schema.Exact("税金")),
		schema.FieldTips:         schema.Spec(schema.Exact("小费")),
		schema.FieldCommission:   schema.Spec(schema.Exact("平台服务费"), schema.Contains("服务费")),
		schema.FieldMarketingFee: schema.Spec(schema.Contains("营销")),
		schema.FieldStatus:       schema.Spec(schema.Exact("订单状态")),
		schema.FieldStoreName:    schema.Spec(schema.Exact("餐厅名称")),
		schema.FieldStoreID:      schema.Spec(schema.Exact("餐厅 ID")),
		schema.FieldOrderID:      schema.Spec(schema.Exact("订单 ID"), schema.Contains("订单号")),
	},
	Status: coerce.StatusVocab{
		Completed: []string{"已完成", "completed"},
		Cancelled: []string{"已取消", "cancelled"},
	},
}

// GrubhubSpec maps the Grubhub transaction export. Its date column leads the
// file, so a positional fallback covers renamed vintages. The export only
// contains settled orders, so there is no cancelled vocabulary.
var GrubhubSpec = Spec{
	Platform: PlatformGrubhub,
	IDPrefix: "GH",
	Fields: map[schema.Field]schema.FieldSpec{
		schema.FieldDate: {
			Candidates: []schema.Candidate{schema.Exact("transaction_date"), schema.Contains("date")},
			Position:   0,
		},
		schema.FieldRevenue:      schema.Spec(schema.Exact("merchant_net_total"), schema.Exact("merchant_total"), schema.Contains("net_total")),
		schema.FieldSubtotal:     schema.Spec(schema.Exact("subtotal")),
		schema.FieldTax:          schema.Spec(schema.Exact("tax"), schema.Contains("sales_tax")),
		schema.FieldTips:         schema.Spec(schema.Exact("tip"), schema.Exact("tips")),
		schema.FieldCommission:   schema.Spec(schema.Exact("commission")),
		schema.FieldMarketingFee: schema.Spec(schema.Exact("marketing_fee"), schema.Contains("marketing")),
		schema.FieldStatus:       schema.Spec(schema.Exact("transaction_type")),
		schema.FieldStoreName:    schema.Spec(schema.Exact("store_name")),
		schema.FieldStoreID:      schema.Spec(schema.Exact("store_id"), schema.Contains("merchant_id")),
		schema.FieldOrderID:      schema.Spec(schema.Exact("order_number"), schema.Contains("order_id")),
	},
	Status: coerce.StatusVocab{
		Completed: []string{"prepaid", "order"},
	},
}

// SpecFor returns the configuration for a platform.
func SpecFor(p Platform) (Spec, bool) {
	switch p {
	case PlatformDoorDash:
		return DoorDashSpec, true
	case PlatformUber:
		return UberSpec, true
	case PlatformGrubhub:
		return GrubhubSpec, true
	}
	return Spec{}, false
}
