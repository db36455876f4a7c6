package stream

import (
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/hydrator/record"
	"github.com/jacentio/hydrator/store/dynamo"
)

// ImageToRecord converts a DynamoDB stream image to a record. Attribute
// names are sorted; numbers become int64 when integral, float64 otherwise;
// maps become nested records.
func ImageToRecord(image map[string]events.DynamoDBAttributeValue) *record.Record {
	rec := record.New()
	names := make([]string, 0, len(image))
	for name := range image {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rec.Set(name, attributeValue(image[name]))
	}
	return rec
}

func attributeValue(v events.DynamoDBAttributeValue) any {
	switch v.DataType() {
	case events.DataTypeString:
		return v.String()
	case events.DataTypeNumber:
		return number(v.Number())
	case events.DataTypeBinary:
		return v.Binary()
	case events.DataTypeBoolean:
		return v.Boolean()
	case events.DataTypeNull:
		return nil
	case events.DataTypeList:
		list := v.List()
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = attributeValue(item)
		}
		return out
	case events.DataTypeMap:
		return ImageToRecord(v.Map())
	case events.DataTypeStringSet:
		return v.StringSet()
	case events.DataTypeNumberSet:
		set := v.NumberSet()
		out := make([]any, len(set))
		for i, n := range set {
			out[i] = number(n)
		}
		return out
	case events.DataTypeBinarySet:
		return v.BinarySet()
	}
	return nil
}

func number(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// getNumberAttr returns the integer value of key in image, or 0.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeNumber {
			n, _ := strconv.ParseInt(v.Number(), 10, 64)
			return n
		}
	}
	return 0
}

// ConvertStreamKey converts the key of a stream record to a dynamo.Key
// usable with Store.Get. Only S, N and B attributes can be key attributes.
func ConvertStreamKey(streamKey map[string]events.DynamoDBAttributeValue) dynamo.Key {
	result := make(dynamo.Key)
	for k, v := range streamKey {
		switch v.DataType() {
		case events.DataTypeString:
			result[k] = &types.AttributeValueMemberS{Value: v.String()}
		case events.DataTypeNumber:
			result[k] = &types.AttributeValueMemberN{Value: v.Number()}
		case events.DataTypeBinary:
			result[k] = &types.AttributeValueMemberB{Value: v.Binary()}
		}
	}
	return result
}

// TableFromARN returns the table name of a stream or table ARN
// ("arn:aws:dynamodb:eu-west-1:123456789012:table/people/stream/..." -> "people").
func TableFromARN(arn string) string {
	_, rest, ok := strings.Cut(arn, ":table/")
	if !ok {
		return ""
	}
	table, _, _ := strings.Cut(rest, "/")
	return table
}
