package bind

import (
	"github.com/vango-dev/observer/pkg/object"
	"github.com/vango-dev/observer/pkg/subject"
)

// StyleBinding is the context of a Style binding.
type StyleBinding struct {
	Style    *object.Style
	Selector object.Selector
	Ref      int32
}

// Style attaches style to obj and keeps it enabled only while s equals ref.
func Style(obj *object.Object, style *object.Style, selector object.Selector, s *subject.Subject, ref int32) *subject.Observer {
	if !accepts("bind.Style", obj, s, subject.KindInt) {
		return nil
	}
	obj.AddStyle(style, selector)
	ctx := &StyleBinding{Style: style, Selector: selector, Ref: ref}
	return s.AddObserverObject(styleObserver, obj, ctx)
}

func styleObserver(o *subject.Observer, s *subject.Subject) {
	ctx := o.UserData().(*StyleBinding)
	o.TargetObject().SetStyleDisabled(ctx.Style, ctx.Selector, s.Int() != ctx.Ref)
}
