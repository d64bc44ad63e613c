package strategy

import "fmt"

// ID names one concrete strategy of the six-row decision table.
type ID int

const (
	StopOnFailSinglePath ID = iota
	StopOnFailMultiPath
	StopOnFailMultiPathFaultLocalization
	AllPropertiesSinglePathTraceStorage
	AllPropertiesMultiPathTraceStorage
	AllPropertiesMultiPathFaultLocalization
)

func (id ID) String() string {
	switch id {
	case StopOnFailSinglePath:
		return "stop-on-fail single-path"
	case StopOnFailMultiPath:
		return "stop-on-fail multi-path"
	case StopOnFailMultiPathFaultLocalization:
		return "stop-on-fail multi-path with fault localization"
	case AllPropertiesSinglePathTraceStorage:
		return "all-properties single-path with trace storage"
	case AllPropertiesMultiPathTraceStorage:
		return "all-properties multi-path with trace storage"
	case AllPropertiesMultiPathFaultLocalization:
		return "all-properties multi-path with fault localization"
	default:
		return "invalid strategy"
	}
}

// Select is the decision table: total over the six valid axis combinations,
// and an error for the two combinations that have no table entry. Reaching
// an invalid combination here means the configuration validator let it
// through, which is a controller bug.
func Select(axes Axes) (ID, error) {
	switch {
	case axes.StopOnFail && axes.Paths == SinglePath && !axes.FaultLocalization:
		return StopOnFailSinglePath, nil
	case axes.StopOnFail && axes.Paths == MultiPath && !axes.FaultLocalization:
		return StopOnFailMultiPath, nil
	case axes.StopOnFail && axes.Paths == MultiPath && axes.FaultLocalization:
		return StopOnFailMultiPathFaultLocalization, nil
	case !axes.StopOnFail && axes.Paths == SinglePath && !axes.FaultLocalization:
		return AllPropertiesSinglePathTraceStorage, nil
	case !axes.StopOnFail && axes.Paths == MultiPath && !axes.FaultLocalization:
		return AllPropertiesMultiPathTraceStorage, nil
	case !axes.StopOnFail && axes.Paths == MultiPath && axes.FaultLocalization:
		return AllPropertiesMultiPathFaultLocalization, nil
	default:
		return 0, fmt.Errorf("no strategy for axes %+v: single-path fault localization is unrepresentable", axes)
	}
}
