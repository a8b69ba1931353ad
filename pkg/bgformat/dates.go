package bgformat

import (
	"fmt"
	"time"
)

var (
	monthsBG   = [...]string{"януари", "февруари", "март", "април", "май", "юни", "юли", "август", "септември", "октомври", "ноември", "декември"}
	weekdaysBG = [...]string{"неделя", "понеделник", "вторник", "сряда", "четвъртък", "петък", "събота"} // indexado por time.Weekday
)

// DateShort formato A: "15/01/26 г.".
func DateShort(t time.Time) string { return t.Format("02/01/06") + " г." }

// DateLong formato B: "15 януари 2026 г.".
func DateLong(t time.Time) string {
	return fmt.Sprintf("%d %s %d г.", t.Day(), monthsBG[t.Month()-1], t.Year())
}

// DateWithWeekday formato C: "четвъртък, 15 януари 2026 г.".
func DateWithWeekday(t time.Time) string {
	return weekdaysBG[t.Weekday()] + ", " + DateLong(t)
}

// DateDotted formato D: "15.01.2027 г.".
func DateDotted(t time.Time) string { return t.Format("02.01.2006") + " г." }
