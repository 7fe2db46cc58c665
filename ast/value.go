package ast

import (
	"fmt"

	"github.com/Konsultn-Engineering/eager/utils"
)

type Value struct {
	Val any
}

func NewValue(val any) *Value {
	v := valuePool.Get().(*Value)
	v.Val = val
	return v
}

func (v *Value) Type() NodeType           { return NodeValue }
func (v *Value) Accept(vis Visitor) error { return vis.VisitValue(v) }

func (v *Value) Fingerprint() uint64 {
	return utils.FingerprintString("val:" + fmt.Sprint(v.Val))
}

func (v *Value) Release() {
	v.Val = nil
	valuePool.Put(v)
}
