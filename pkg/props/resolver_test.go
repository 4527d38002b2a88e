package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resolverFixture = `
import React, { forwardRef, memo } from "react"

interface ButtonProps { variant?: string }
type PanelProps = { title: string }

function Button(props: ButtonProps) { return <button /> }
const Card = ({ title }: CardProps & Extra) => <div>{title}</div>
const Input = forwardRef<HTMLInputElement, InputProps>((props, ref) => <input ref={ref} />)
const Select = React.forwardRef((props: SelectProps, ref) => <select />)
const Memoed = memo(function (props: MemoProps) { return <div /> })
class Page extends React.Component<PageProps> {
  render() { return <Button variant="a" /> }
}
const Inline = ({ a }: { a: string }) => <span>{a}</span>
function Panel(props) { return <section /> }
function Bare(props) { return <section /> }
const Generic = (p: Wrapper<Inner>) => null
const Empty = () => null
function helper(props: HelperProps) { return null }
`

func TestResolver_Declarations(t *testing.T) {
	res := extract(t, "ui.tsx", resolverFixture, DefaultOptions())

	assert.Equal(t, map[string]string{
		"Button":  "ButtonProps",
		"Card":    "CardProps",
		"Input":   "InputProps",
		"Select":  "SelectProps",
		"Memoed":  "MemoProps",
		"Page":    "PageProps",
		"Inline":  "",
		"Panel":   "PanelProps",
		"Bare":    "",
		"Generic": "Wrapper",
		"Empty":   "",
	}, res.Declarations)
}

func TestResolver_AttachesToUsageSite(t *testing.T) {
	res := extract(t, "ui.tsx", resolverFixture, DefaultOptions())

	require.Len(t, res.Components, 1)
	c := res.Components[0]
	assert.Equal(t, "Button", c.ComponentName)
	assert.Equal(t, "ButtonProps", c.PropsInterface)
	assert.Equal(t, "Page", c.DeclaredIn)
}

func TestResolver_AttachesToDeclaration(t *testing.T) {
	opts := DefaultOptions()
	opts.Identity = IdentityDeclaration
	res := extract(t, "ui.tsx", resolverFixture, opts)

	require.Len(t, res.Components, 1)
	assert.Equal(t, "Page", res.Components[0].ComponentName)
	assert.Equal(t, "PageProps", res.Components[0].PropsInterface)
}

func TestResolver_Disabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ResolveTypes = false
	res := extract(t, "ui.tsx", resolverFixture, opts)

	assert.Nil(t, res.Declarations)
	require.Len(t, res.Components, 1)
	assert.Empty(t, res.Components[0].PropsInterface)
}

func TestResolver_TypeDeclaredAfterUse(t *testing.T) {
	code := `
export function Toolbar() { return <Toolbar.Item /> }
const Avatar = (props) => <img />
export const Profile = () => <Avatar size={3} />
interface AvatarProps { size: number }
`
	res := extract(t, "profile.tsx", code, DefaultOptions())

	assert.Equal(t, "AvatarProps", res.Declarations["Avatar"])
	var avatar *ComponentAnalysis
	for i := range res.Components {
		if res.Components[i].ComponentName == "Avatar" {
			avatar = &res.Components[i]
		}
	}
	require.NotNil(t, avatar)
	assert.Equal(t, "AvatarProps", avatar.PropsInterface)
	assert.Equal(t, "Profile", avatar.DeclaredIn)
}

func TestResolver_FunctionComponentAnnotation(t *testing.T) {
	code := `
import React, { FC, FunctionComponent, memo } from "react"

interface Props { variant: string }
const Button: React.FC<Props> = ({ variant }) => <button className={variant} />
const Badge: FC<BadgeProps> = function (props) { return <span /> }
const Chip: React.FunctionComponent<ChipProps & Extra> = (props) => <i />
const Tag: FunctionComponent<TagProps> = memo((props) => <b />)
const Loose: React.FC = (props: LooseProps) => <em />
const Other: Renderer<OtherProps> = (props) => null
const App = () => <Button variant="x" />
`
	res := extract(t, "app.tsx", code, DefaultOptions())

	assert.Equal(t, "Props", res.Declarations["Button"])
	assert.Equal(t, "BadgeProps", res.Declarations["Badge"])
	assert.Equal(t, "ChipProps", res.Declarations["Chip"])
	assert.Equal(t, "TagProps", res.Declarations["Tag"])
	assert.Equal(t, "LooseProps", res.Declarations["Loose"])
	assert.Equal(t, "", res.Declarations["Other"])

	var button *ComponentAnalysis
	for i := range res.Components {
		if res.Components[i].ComponentName == "Button" {
			button = &res.Components[i]
		}
	}
	require.NotNil(t, button)
	assert.Equal(t, "Props", button.PropsInterface)
	assert.Equal(t, "App", button.DeclaredIn)
}

func TestResolver_JavaScriptFallback(t *testing.T) {
	code := `
function Modal({ open }) { return <Dialog open={open} /> }
class Legacy extends Component { render() { return <Modal open /> } }
`
	res := extract(t, "modal.jsx", code, DefaultOptions())

	assert.Equal(t, map[string]string{"Modal": "", "Legacy": ""}, res.Declarations)
	require.Len(t, res.Components, 2)
	assert.Equal(t, "Modal", res.Components[0].DeclaredIn)
	assert.Equal(t, "Legacy", res.Components[1].DeclaredIn)
}

func TestIsComponentName(t *testing.T) {
	assert.True(t, isComponentName("Button"))
	assert.True(t, isComponentName("Ärger"))
	assert.False(t, isComponentName("button"))
	assert.False(t, isComponentName("_Button"))
	assert.False(t, isComponentName(""))
}
