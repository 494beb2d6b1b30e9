package helper

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	beegocontext "github.com/beego/beego/v2/server/web/context"
)

// IsJSONContentType 判断是否为 JSON 请求
func IsJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.Contains(ct, "json")
}

// 金额格式校验：非负，最多两位小数（预编译正则）
var moneyRe = regexp.MustCompile(`^(?:0|[1-9]\d*)(?:\.\d{1,2})?$`)

// IsMoneyFormat 判断金额格式
func IsMoneyFormat(s string) bool {
	return moneyRe.MatchString(strings.TrimSpace(s))
}

// 邮箱格式校验（宽松：本地部分@域名.后缀）
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsEmailFormat 判断邮箱格式
func IsEmailFormat(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) <= 254 && emailRe.MatchString(s)
}

// 默认输入保护参数
const (
	defaultJSONMaxBytes int64         = 1 << 20 // 1MB
	defaultParseTimeout time.Duration = 1 * time.Second
)

type deadlineReader struct {
	r        io.Reader
	deadline time.Time
}

func (dr *deadlineReader) Read(p []byte) (int, error) {
	if time.Now().After(dr.deadline) {
		return 0, fmt.Errorf("read timeout")
	}
	return dr.r.Read(p)
}

// jsonBodyReader 在 JSON 分支下为请求体增加大小限制与解析超时保护
func jsonBodyReader(ctx *beegocontext.Context) io.Reader {
	lr := io.LimitReader(ctx.Request.Body, defaultJSONMaxBytes)
	return &deadlineReader{r: lr, deadline: time.Now().Add(defaultParseTimeout)}
}

// GetTraceID 统一提取 trace_id：优先从中间件注入的数据取，其次从常见请求头降级
func GetTraceID(ctx *beegocontext.Context) string {
	if v := ctx.Input.GetData("trace_id"); v != nil {
		return fmt.Sprint(v)
	}
	if h := strings.TrimSpace(ctx.Input.Header("X-Trace-ID")); h != "" {
		return h
	}
	if h := strings.TrimSpace(ctx.Input.Header("Trace-Id")); h != "" {
		return h
	}
	return ""
}

// parseByContentType 按 Content-Type 选择解析函数，减少重复 if/else 分支
func parseByContentType[T any](ctx *beegocontext.Context,
	jsonParser func(io.Reader) (T, bool, string),
	formParser func(*beegocontext.Context) (T, bool, string),
) (T, bool, string) {
	ct := ctx.Input.Header("Content-Type")
	if IsJSONContentType(ct) {
		return jsonParser(jsonBodyReader(ctx))
	}
	return formParser(ctx)
}

// parseIntList 解析逗号分隔的数字串（表单分支用），如 "3,7,12"
func parseIntList(s string) ([]int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// -------- Entry helpers --------

// EntryParsed 为解析后的购买入参（与控制器/服务层解耦）
type EntryParsed struct {
	Numbers     []int `json:"numbers"`
	RepeatWeeks int   `json:"repeat_weeks"`
}

func ParseEntryFromJSON(r io.Reader) (EntryParsed, bool, string) {
	var out EntryParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return EntryParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseEntryFromForm(ctx *beegocontext.Context) (EntryParsed, bool, string) {
	var out EntryParsed
	nums, ok := parseIntList(ctx.Input.Query("numbers"))
	if !ok {
		return EntryParsed{}, false, "numbers must be a comma separated integer list"
	}
	out.Numbers = nums
	if rw := strings.TrimSpace(ctx.Input.Query("repeat_weeks")); rw != "" {
		n, err := strconv.Atoi(rw)
		if err != nil {
			return EntryParsed{}, false, "repeat_weeks must be integer"
		}
		out.RepeatWeeks = n
	}
	return out, true, ""
}

// ValidateEntry 对通用字段做二次校验（适用于 JSON 与 FORM）
// 只做传输层保护；数字范围、定价等业务校验在服务层完成
func ValidateEntry(in *EntryParsed) (bool, string) {
	if len(in.Numbers) == 0 {
		return false, "numbers required"
	}
	if len(in.Numbers) > 16 {
		return false, "too many numbers"
	}
	if in.RepeatWeeks == 0 {
		in.RepeatWeeks = 1
	}
	if in.RepeatWeeks < 0 || in.RepeatWeeks > 520 {
		return false, "repeat_weeks out of range"
	}
	return true, ""
}

// ParseAndValidateEntry 按 Content-Type 自动解析并做统一校验
func ParseAndValidateEntry(ctx *beegocontext.Context) (EntryParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseEntryFromJSON, ParseEntryFromForm)
	if !ok {
		return EntryParsed{}, false, msg
	}
	if ok, msg := ValidateEntry(&out); !ok {
		return EntryParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Draw helpers --------

type DrawParsed struct {
	Numbers []int `json:"numbers"`
}

func ParseDrawFromJSON(r io.Reader) (DrawParsed, bool, string) {
	var out DrawParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return DrawParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseDrawFromForm(ctx *beegocontext.Context) (DrawParsed, bool, string) {
	var out DrawParsed
	nums, ok := parseIntList(ctx.Input.Query("numbers"))
	if !ok {
		return DrawParsed{}, false, "numbers must be a comma separated integer list"
	}
	out.Numbers = nums
	return out, true, ""
}

func ValidateDraw(in *DrawParsed) (bool, string) {
	if len(in.Numbers) == 0 {
		return false, "numbers required"
	}
	if len(in.Numbers) > 16 {
		return false, "too many numbers"
	}
	return true, ""
}

func ParseAndValidateDraw(ctx *beegocontext.Context) (DrawParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseDrawFromJSON, ParseDrawFromForm)
	if !ok {
		return DrawParsed{}, false, msg
	}
	if ok, msg := ValidateDraw(&out); !ok {
		return DrawParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Round helpers --------

type RoundCreateParsed struct {
	Year       int `json:"year"`
	WeekNumber int `json:"week_number"`
}

func ParseRoundCreateFromJSON(r io.Reader) (RoundCreateParsed, bool, string) {
	var out RoundCreateParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return RoundCreateParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseRoundCreateFromForm(ctx *beegocontext.Context) (RoundCreateParsed, bool, string) {
	var out RoundCreateParsed
	y, err := strconv.Atoi(strings.TrimSpace(ctx.Input.Query("year")))
	if err != nil {
		return RoundCreateParsed{}, false, "year must be integer"
	}
	w, err := strconv.Atoi(strings.TrimSpace(ctx.Input.Query("week_number")))
	if err != nil {
		return RoundCreateParsed{}, false, "week_number must be integer"
	}
	out.Year, out.WeekNumber = y, w
	return out, true, ""
}

func ParseAndValidateRoundCreate(ctx *beegocontext.Context) (RoundCreateParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseRoundCreateFromJSON, ParseRoundCreateFromForm)
	if !ok {
		return RoundCreateParsed{}, false, msg
	}
	if out.Year < 2000 || out.Year > 2200 {
		return RoundCreateParsed{}, false, "year out of range"
	}
	if out.WeekNumber < 1 || out.WeekNumber > 53 {
		return RoundCreateParsed{}, false, "week_number must be 1..53"
	}
	return out, true, ""
}

// -------- FundRequest helpers --------

type FundRequestParsed struct {
	Amount         string `json:"amount"`
	TransactionRef string `json:"transaction_ref"`
}

func ParseFundRequestFromJSON(r io.Reader) (FundRequestParsed, bool, string) {
	var out FundRequestParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return FundRequestParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseFundRequestFromForm(ctx *beegocontext.Context) (FundRequestParsed, bool, string) {
	var out FundRequestParsed
	out.Amount = strings.TrimSpace(ctx.Input.Query("amount"))
	out.TransactionRef = strings.TrimSpace(ctx.Input.Query("transaction_ref"))
	return out, true, ""
}

func ValidateFundRequest(in *FundRequestParsed) (bool, string) {
	in.Amount = strings.TrimSpace(in.Amount)
	in.TransactionRef = strings.TrimSpace(in.TransactionRef)
	if in.Amount == "" || !IsMoneyFormat(in.Amount) {
		return false, "amount must be numeric with up to 2 decimals"
	}
	if in.TransactionRef == "" {
		return false, "transaction_ref required"
	}
	if len(in.TransactionRef) > 128 {
		return false, "transaction_ref too long"
	}
	return true, ""
}

func ParseAndValidateFundRequest(ctx *beegocontext.Context) (FundRequestParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseFundRequestFromJSON, ParseFundRequestFromForm)
	if !ok {
		return FundRequestParsed{}, false, msg
	}
	if ok, msg := ValidateFundRequest(&out); !ok {
		return FundRequestParsed{}, false, msg
	}
	return out, true, ""
}

// -------- Player / admin account helpers --------

// AccountCreateParsed 玩家与管理员注册共用的入参形状
type AccountCreateParsed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func ParseAccountCreateFromJSON(r io.Reader) (AccountCreateParsed, bool, string) {
	var out AccountCreateParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return AccountCreateParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseAccountCreateFromForm(ctx *beegocontext.Context) (AccountCreateParsed, bool, string) {
	return AccountCreateParsed{
		Name:     strings.TrimSpace(ctx.Input.Query("name")),
		Email:    strings.TrimSpace(ctx.Input.Query("email")),
		Phone:    strings.TrimSpace(ctx.Input.Query("phone")),
		Password: ctx.Input.Query("password"),
	}, true, ""
}

func ValidateAccountCreate(in *AccountCreateParsed) (bool, string) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || len(in.Name) > 128 {
		return false, "name required"
	}
	if !IsEmailFormat(in.Email) {
		return false, "invalid email"
	}
	if len(in.Phone) > 32 {
		return false, "phone too long"
	}
	if in.Password == "" {
		return false, "password required"
	}
	return true, ""
}

func ParseAndValidateAccountCreate(ctx *beegocontext.Context) (AccountCreateParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseAccountCreateFromJSON, ParseAccountCreateFromForm)
	if !ok {
		return AccountCreateParsed{}, false, msg
	}
	if ok, msg := ValidateAccountCreate(&out); !ok {
		return AccountCreateParsed{}, false, msg
	}
	return out, true, ""
}

// PlayerUpdateParsed 部分更新：nil 字段表示保持不变
type PlayerUpdateParsed struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func ParsePlayerUpdateFromJSON(r io.Reader) (PlayerUpdateParsed, bool, string) {
	var out PlayerUpdateParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return PlayerUpdateParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParsePlayerUpdateFromForm(ctx *beegocontext.Context) (PlayerUpdateParsed, bool, string) {
	var out PlayerUpdateParsed
	// 表单分支只认显式传入的键
	if v := ctx.Input.Query("name"); v != "" {
		out.Name = &v
	}
	if v := ctx.Input.Query("email"); v != "" {
		out.Email = &v
	}
	if v := ctx.Input.Query("phone"); v != "" {
		out.Phone = &v
	}
	return out, true, ""
}

func ValidatePlayerUpdate(in *PlayerUpdateParsed) (bool, string) {
	if in.Name == nil && in.Email == nil && in.Phone == nil {
		return false, "nothing to update"
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" || len(n) > 128 {
			return false, "invalid name"
		}
		in.Name = &n
	}
	if in.Email != nil {
		e := strings.TrimSpace(*in.Email)
		if !IsEmailFormat(e) {
			return false, "invalid email"
		}
		in.Email = &e
	}
	if in.Phone != nil && len(*in.Phone) > 32 {
		return false, "phone too long"
	}
	return true, ""
}

func ParseAndValidatePlayerUpdate(ctx *beegocontext.Context) (PlayerUpdateParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParsePlayerUpdateFromJSON, ParsePlayerUpdateFromForm)
	if !ok {
		return PlayerUpdateParsed{}, false, msg
	}
	if ok, msg := ValidatePlayerUpdate(&out); !ok {
		return PlayerUpdateParsed{}, false, msg
	}
	return out, true, ""
}

type PasswordChangeParsed struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func ParsePasswordChangeFromJSON(r io.Reader) (PasswordChangeParsed, bool, string) {
	var out PasswordChangeParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return PasswordChangeParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParsePasswordChangeFromForm(ctx *beegocontext.Context) (PasswordChangeParsed, bool, string) {
	return PasswordChangeParsed{
		CurrentPassword: ctx.Input.Query("current_password"),
		NewPassword:     ctx.Input.Query("new_password"),
	}, true, ""
}

func ParseAndValidatePasswordChange(ctx *beegocontext.Context) (PasswordChangeParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParsePasswordChangeFromJSON, ParsePasswordChangeFromForm)
	if !ok {
		return PasswordChangeParsed{}, false, msg
	}
	if out.CurrentPassword == "" || out.NewPassword == "" {
		return PasswordChangeParsed{}, false, "current_password and new_password required"
	}
	return out, true, ""
}

// -------- Login helpers --------

type LoginParsed struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaID    string `json:"captcha_id"`
	CaptchaValue string `json:"captcha_value"`
}

func ParseLoginFromJSON(r io.Reader) (LoginParsed, bool, string) {
	var out LoginParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return LoginParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseLoginFromForm(ctx *beegocontext.Context) (LoginParsed, bool, string) {
	return LoginParsed{
		Email:        strings.TrimSpace(ctx.Input.Query("email")),
		Password:     ctx.Input.Query("password"),
		CaptchaID:    strings.TrimSpace(ctx.Input.Query("captcha_id")),
		CaptchaValue: strings.TrimSpace(ctx.Input.Query("captcha_value")),
	}, true, ""
}

func ParseAndValidateLogin(ctx *beegocontext.Context) (LoginParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseLoginFromJSON, ParseLoginFromForm)
	if !ok {
		return LoginParsed{}, false, msg
	}
	out.Email = strings.TrimSpace(out.Email)
	if out.Email == "" || out.Password == "" {
		return LoginParsed{}, false, "email and password required"
	}
	if len(out.Email) > 254 || len(out.Password) > 128 {
		return LoginParsed{}, false, "invalid request"
	}
	return out, true, ""
}
