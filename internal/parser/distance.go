package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/AlexMcLaughlin1/sessions/internal/model"
)

// SwimDistanceKm 游泳固定距离（公里），不从文本中解析
const SwimDistanceKm = 2.0

var (
	kmRangePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)\s*km`)
	kmPattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*km`)
)

var (
	swimKeywords = []string{"swim"}
	bikeKeywords = []string{"bike", "cycle"}
	runKeywords  = []string{"run"}
)

// ParseDistances 解析训练描述中的各项目距离
// 支持格式: "Swim 2km + Bike 40km" / "Run 5-7km" / "Bike 10km 5km"
//
// 按 "+" 拆分后逐段匹配关键词；同一段包含多个项目关键词时，距离计入每个项目。
// 无法识别的内容按 0 处理。
func ParseDistances(text string) model.DisciplineDistances {
	var d model.DisciplineDistances

	for _, segment := range strings.Split(strings.ToLower(text), "+") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if ContainsAny(segment, swimKeywords) {
			d.Swim += SwimDistanceKm
		}
		if ContainsAny(segment, bikeKeywords) {
			d.Bike += ExtractKm(segment)
		}
		if ContainsAny(segment, runKeywords) {
			d.Run += ExtractKm(segment)
		}
	}

	return d
}

// ExtractKm 提取一段文本中的公里数
// 优先匹配区间 "5-7km" 取平均值；否则累加所有 "<数字>km"
func ExtractKm(segment string) float64 {
	segment = strings.ToLower(segment)

	if matches := kmRangePattern.FindStringSubmatch(segment); len(matches) >= 3 {
		low, _ := strconv.ParseFloat(matches[1], 64)
		high, _ := strconv.ParseFloat(matches[2], 64)
		return (low + high) / 2
	}

	total := 0.0
	for _, matches := range kmPattern.FindAllStringSubmatch(segment, -1) {
		v, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			continue
		}
		total += v
	}
	return total
}

// ContainsGym 是否为力量训练
func ContainsGym(text string) bool {
	return strings.Contains(strings.ToLower(text), "gym")
}
