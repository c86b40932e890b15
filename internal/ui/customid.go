package ui

import (
	"fmt"
	"strconv"
	"strings"
)

// Button custom ids carry enough routing state that a later interaction
// can be dispatched without a database lookup first. Format:
//
//	modcase:reason:<caseID>
//	modcase:dmdel:<caseID>:<dmChannelID>:<dmMessageID>
//	modcase:dmerr:<caseID>
const customIDPrefix = "modcase"

type CustomIDKind string

const (
	CustomIDSetReason CustomIDKind = "reason"
	CustomIDDeleteDM  CustomIDKind = "dmdel"
	CustomIDDMError   CustomIDKind = "dmerr"
)

type CustomID struct {
	Kind        CustomIDKind
	CaseID      int64
	DMChannelID int64
	DMMessageID int64
}

func (id CustomID) String() string {
	switch id.Kind {
	case CustomIDDeleteDM:
		return fmt.Sprintf("%s:%s:%d:%d:%d", customIDPrefix, id.Kind, id.CaseID, id.DMChannelID, id.DMMessageID)
	default:
		return fmt.Sprintf("%s:%s:%d", customIDPrefix, id.Kind, id.CaseID)
	}
}

func SetReasonCustomID(caseID int64) string {
	return CustomID{Kind: CustomIDSetReason, CaseID: caseID}.String()
}

func DeleteDMCustomID(caseID, dmChannelID, dmMessageID int64) string {
	return CustomID{
		Kind:        CustomIDDeleteDM,
		CaseID:      caseID,
		DMChannelID: dmChannelID,
		DMMessageID: dmMessageID,
	}.String()
}

func DMErrorCustomID(caseID int64) string {
	return CustomID{Kind: CustomIDDMError, CaseID: caseID}.String()
}

func ParseCustomID(raw string) (CustomID, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 3 || parts[0] != customIDPrefix {
		return CustomID{}, fmt.Errorf("not a case custom id: %q", raw)
	}

	kind := CustomIDKind(parts[1])
	caseID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || caseID <= 0 {
		return CustomID{}, fmt.Errorf("invalid case id in custom id: %q", raw)
	}

	id := CustomID{Kind: kind, CaseID: caseID}

	switch kind {
	case CustomIDSetReason, CustomIDDMError:
		if len(parts) != 3 {
			return CustomID{}, fmt.Errorf("malformed custom id: %q", raw)
		}
	case CustomIDDeleteDM:
		if len(parts) != 5 {
			return CustomID{}, fmt.Errorf("malformed custom id: %q", raw)
		}
		id.DMChannelID, err = strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return CustomID{}, fmt.Errorf("invalid dm channel id in custom id: %q", raw)
		}
		id.DMMessageID, err = strconv.ParseInt(parts[4], 10, 64)
		if err != nil {
			return CustomID{}, fmt.Errorf("invalid dm message id in custom id: %q", raw)
		}
	default:
		return CustomID{}, fmt.Errorf("unknown custom id kind: %q", raw)
	}

	return id, nil
}
